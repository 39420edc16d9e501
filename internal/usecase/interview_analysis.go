package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"
	"go-interview-backend/pkg/logger"
)

var errTranscriptMissing = errors.New("video response has no transcript to score")

// GetAnalysis returns the stored analysis of a completed interview and
// generates it first when an earlier run left it pending.
func (u *interviewUsecase) GetAnalysis(ctx context.Context, actor domain.Actor, id int64) (*domain.InterviewAnalysisView, error) {
	iv, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkAnalyzable(actor, iv); err != nil {
		return nil, err
	}

	analysis, err := u.analysisRepo.GetInterviewAnalysis(ctx, iv.ID)
	if err == nil {
		tmpl, err := u.templateRepo.GetByID(ctx, iv.TemplateID)
		if err != nil {
			return nil, err
		}
		return u.view(ctx, iv, tmpl, analysis)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	return u.analyzeLocked(ctx, actor, id, false)
}

// RegenerateAnalysis replaces the interview analysis. The old one survives
// if the new one cannot be produced.
func (u *interviewUsecase) RegenerateAnalysis(ctx context.Context, actor domain.Actor, id int64) (*domain.InterviewAnalysisView, error) {
	return u.analyzeLocked(ctx, actor, id, true)
}

func (u *interviewUsecase) analyzeLocked(ctx context.Context, actor domain.Actor, id int64, replace bool) (*domain.InterviewAnalysisView, error) {
	var out *domain.InterviewAnalysisView
	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		iv, err := u.interviewRepo.GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return apperror.NotFound("Interview not found")
			}
			return err
		}
		if err := checkAnalyzable(actor, iv); err != nil {
			return err
		}

		tmpl, err := u.templateRepo.GetByID(ctx, iv.TemplateID)
		if err != nil {
			return err
		}

		if !replace {
			// a concurrent caller may have generated it while we waited for the lock
			existing, err := u.analysisRepo.GetInterviewAnalysis(ctx, iv.ID)
			if err == nil {
				out, err = u.view(ctx, iv, tmpl, existing)
				return err
			}
			if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
		} else if err := u.analysisRepo.DeleteInterviewAnalysis(ctx, iv.ID); err != nil {
			return err
		}

		analysis, failures, err := u.generateAnalysis(ctx, iv, tmpl)
		if len(failures) > 0 {
			logger.Log.Warn("analysis generated with unscored responses", "interview_id", iv.ID, "unscored", len(failures))
		}
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientData) {
				return apperror.Unprocessable("No scored responses are available to analyze yet", err)
			}
			return err
		}

		out, err = u.view(ctx, iv, tmpl, analysis)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// generateAnalysis scores whatever is still unscored, aggregates and upserts.
// Responses that fail to score are left out of the aggregate.
func (u *interviewUsecase) generateAnalysis(ctx context.Context, iv *domain.Interview, tmpl *domain.Template) (*domain.InterviewAnalysis, []*domain.ScoringError, error) {
	responses, err := u.responseRepo.ListByInterview(ctx, iv.ID)
	if err != nil {
		return nil, nil, err
	}
	questions := indexQuestions(tmpl.Questions)

	var (
		scored   []domain.ResponseAnalysis
		failures []*domain.ScoringError
	)
	for i := range responses {
		resp := &responses[i]
		if resp.Analysis == nil {
			q, ok := questions[resp.QuestionID]
			if !ok {
				continue
			}
			if _, err := u.scoreAndStore(ctx, q, resp); err != nil {
				var serr *domain.ScoringError
				if !errors.As(err, &serr) {
					return nil, nil, err
				}
				failures = append(failures, serr)
				continue
			}
		}
		scored = append(scored, *resp.Analysis)
	}

	analysis, err := u.aggregator.Aggregate(iv.ID, scored)
	if err != nil {
		return nil, failures, err
	}
	if err := u.analysisRepo.UpsertInterviewAnalysis(ctx, analysis); err != nil {
		return nil, failures, err
	}
	return analysis, failures, nil
}

// scoreAndStore scores one persisted response. Scorer failures come back as
// *domain.ScoringError, storage failures as they are.
func (u *interviewUsecase) scoreAndStore(ctx context.Context, q domain.Question, resp *domain.Response) (*domain.ResponseAnalysis, error) {
	req, err := scoreRequestFor(q, resp)
	if err != nil {
		return nil, domain.NewScoringError(resp.ID, q.ID, err)
	}

	res, err := u.scorer.Score(ctx, req)
	if err != nil {
		logger.Log.Warn("response scoring failed", "response_id", resp.ID, "question_id", q.ID, "error", err)
		return nil, domain.NewScoringError(resp.ID, q.ID, err)
	}

	analysis := &domain.ResponseAnalysis{
		ResponseID: resp.ID,
		Score:      res.Score,
		Strengths:  res.Strengths,
		Weaknesses: res.Weaknesses,
		Notes:      res.Notes,
		Keywords:   res.Keywords,
		Sentiment:  res.Sentiment,
		CreatedAt:  u.now(),
	}
	if err := u.analysisRepo.CreateResponseAnalysis(ctx, analysis); err != nil {
		return nil, err
	}
	resp.Analysis = analysis
	return analysis, nil
}

// scoreRequestFor never forwards the video URL, only its transcript.
func scoreRequestFor(q domain.Question, resp *domain.Response) (domain.ScoreRequest, error) {
	req := domain.ScoreRequest{QuestionType: q.Type, QuestionText: q.Text}
	switch q.Type {
	case domain.QuestionTypeText:
		req.Answer = deref(resp.TextResponse)
	case domain.QuestionTypeMultipleChoice:
		req.Answer = deref(resp.SelectedOption)
		req.Options = q.Options
	case domain.QuestionTypeVideo:
		if strings.TrimSpace(deref(resp.VideoTranscript)) == "" {
			return req, errTranscriptMissing
		}
		req.Answer = deref(resp.VideoTranscript)
	default:
		return req, fmt.Errorf("unsupported question type %q", q.Type)
	}
	return req, nil
}

func (u *interviewUsecase) view(ctx context.Context, iv *domain.Interview, tmpl *domain.Template, analysis *domain.InterviewAnalysis) (*domain.InterviewAnalysisView, error) {
	responses, err := u.responseRepo.ListByInterview(ctx, iv.ID)
	if err != nil {
		return nil, err
	}
	return &domain.InterviewAnalysisView{
		InterviewID:   iv.ID,
		CandidateName: iv.CandidateName,
		TemplateTitle: tmpl.Title,
		CompletedAt:   iv.CompletedAt,
		Analysis:      analysis,
		Responses:     responses,
	}, nil
}

func checkAnalyzable(actor domain.Actor, iv *domain.Interview) error {
	if !canManage(actor, iv) {
		return apperror.Forbidden("You do not have access to this interview")
	}
	if iv.Status != domain.InterviewStatusCompleted {
		return invalidState("Analysis is only available for completed interviews")
	}
	return nil
}

// validateResponses checks a batch against the template's questions and
// returns every violation, or nil.
func validateResponses(inputs []domain.ResponseInput, questions map[int64]domain.Question) *domain.ValidationError {
	verr := &domain.ValidationError{}
	seen := make(map[int64]bool, len(inputs))

	for i, in := range inputs {
		idx, qid := i, in.QuestionID
		add := func(field, msg string) {
			verr.Add(domain.Violation{QuestionIndex: &idx, QuestionID: &qid, Field: field, Message: msg})
		}

		q, ok := questions[in.QuestionID]
		if !ok {
			add("question_id", "question does not belong to this interview")
			continue
		}
		if seen[in.QuestionID] {
			add("question_id", "question answered more than once in this submission")
			continue
		}
		seen[in.QuestionID] = true

		switch q.Type {
		case domain.QuestionTypeText:
			if strings.TrimSpace(deref(in.TextResponse)) == "" {
				add("text_response", "is required for text questions")
			}
			if in.SelectedOption != nil || in.VideoURL != nil || in.VideoTranscript != nil {
				add("text_response", "text questions take only a text response")
			}
		case domain.QuestionTypeMultipleChoice:
			switch {
			case in.SelectedOption == nil:
				add("selected_option", "is required for multiple_choice questions")
			case !slices.Contains(q.Options, *in.SelectedOption):
				add("selected_option", "must be one of the question's options")
			}
			if in.TextResponse != nil || in.VideoURL != nil || in.VideoTranscript != nil {
				add("selected_option", "multiple_choice questions take only a selected option")
			}
		case domain.QuestionTypeVideo:
			if strings.TrimSpace(deref(in.VideoURL)) == "" {
				add("video_url", "is required for video questions")
			}
			if in.TextResponse != nil || in.SelectedOption != nil {
				add("video_url", "video questions take only a video and its transcript")
			}
		}
	}

	if len(verr.Violations) == 0 {
		return nil
	}
	return verr
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
