package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go-interview-backend/internal/domain"
	"go-interview-backend/internal/scoring"
	"go-interview-backend/pkg/apperror"
	"go-interview-backend/pkg/logger"
)

// InterviewDeps groups the collaborators of the interview use case.
// Uploads may be nil when no bucket is configured.
type InterviewDeps struct {
	Tx            domain.Transactor
	InterviewRepo domain.InterviewRepository
	ResponseRepo  domain.ResponseRepository
	AnalysisRepo  domain.AnalysisRepository
	TemplateRepo  domain.TemplateRepository
	UserRepo      domain.UserRepository
	Scorer        scoring.Scorer
	Aggregator    *scoring.Aggregator
	Notifier      domain.Notifier
	Uploads       domain.UploadURLIssuer
	FrontendURL   string
	Clock         func() time.Time
}

type interviewUsecase struct {
	tx            domain.Transactor
	interviewRepo domain.InterviewRepository
	responseRepo  domain.ResponseRepository
	analysisRepo  domain.AnalysisRepository
	templateRepo  domain.TemplateRepository
	userRepo      domain.UserRepository
	scorer        scoring.Scorer
	aggregator    *scoring.Aggregator
	notifier      domain.Notifier
	uploads       domain.UploadURLIssuer
	frontendURL   string
	now           func() time.Time
}

func NewInterviewUsecase(deps InterviewDeps) domain.InterviewUsecase {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &interviewUsecase{
		tx:            deps.Tx,
		interviewRepo: deps.InterviewRepo,
		responseRepo:  deps.ResponseRepo,
		analysisRepo:  deps.AnalysisRepo,
		templateRepo:  deps.TemplateRepo,
		userRepo:      deps.UserRepo,
		scorer:        deps.Scorer,
		aggregator:    deps.Aggregator,
		notifier:      deps.Notifier,
		uploads:       deps.Uploads,
		frontendURL:   strings.TrimRight(deps.FrontendURL, "/"),
		now:           now,
	}
}

func (u *interviewUsecase) CreateInterview(ctx context.Context, actor domain.Actor, input *domain.CreateInterviewInput) (*domain.InterviewInvitation, error) {
	tmpl, err := u.templateRepo.GetByID(ctx, input.TemplateID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Template not found")
		}
		return nil, err
	}
	if tmpl.CreatorID != actor.UserID && actor.Role != domain.RoleAdmin {
		return nil, apperror.Forbidden("You can only invite candidates to your own templates")
	}
	if !tmpl.IsActive {
		return nil, apperror.BadRequest("Template is not active")
	}

	now := u.now()
	if input.DueDate != nil && !input.DueDate.After(now) {
		return nil, apperror.BadRequest("Due date must be in the future")
	}

	iv := &domain.Interview{
		TemplateID:     tmpl.ID,
		RecruiterID:    actor.UserID,
		CandidateEmail: strings.ToLower(strings.TrimSpace(input.CandidateEmail)),
		CandidateName:  strings.TrimSpace(input.CandidateName),
		Status:         domain.InterviewStatusPending,
		DueDate:        input.DueDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// Link the candidate account when one is already registered
	if user, err := u.userRepo.GetByEmail(ctx, iv.CandidateEmail); err == nil && user.Role == domain.RoleCandidate {
		iv.CandidateUserID = &user.ID
	}

	if err := u.interviewRepo.Create(ctx, iv); err != nil {
		return nil, err
	}

	return &domain.InterviewInvitation{
		Interview: iv,
		EmailSent: u.sendInvitation(ctx, iv, tmpl),
	}, nil
}

// sendInvitation never fails the creation; delivery problems are reported in the result.
func (u *interviewUsecase) sendInvitation(ctx context.Context, iv *domain.Interview, tmpl *domain.Template) *domain.DeliveryResult {
	if u.notifier == nil {
		return &domain.DeliveryResult{Success: false, Message: "Email delivery is not configured"}
	}

	res, err := u.notifier.SendInvitation(ctx, domain.Invitation{
		InterviewID:    iv.ID,
		CandidateEmail: iv.CandidateEmail,
		CandidateName:  iv.CandidateName,
		TemplateTitle:  tmpl.Title,
		DueDate:        iv.DueDate,
		InterviewLink:  fmt.Sprintf("%s/interviews/%d", u.frontendURL, iv.ID),
	})
	if err != nil {
		logger.Log.Error("failed to send invitation", "interview_id", iv.ID, "error", err)
		return &domain.DeliveryResult{Success: false, Message: "Failed to send invitation email"}
	}
	return res
}

func (u *interviewUsecase) GetInterview(ctx context.Context, actor domain.Actor, id int64) (*domain.InterviewDetail, error) {
	iv, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}

	manager := canManage(actor, iv)
	if !manager && !isInvitee(actor, iv) {
		return nil, apperror.Forbidden("You do not have access to this interview")
	}

	tmpl, err := u.templateRepo.GetByID(ctx, iv.TemplateID)
	if err != nil {
		return nil, err
	}
	responses, err := u.responseRepo.ListByInterview(ctx, iv.ID)
	if err != nil {
		return nil, err
	}

	detail := &domain.InterviewDetail{
		Interview: *iv,
		Template:  tmpl,
		Responses: responses,
	}

	if !manager {
		return detail.ForCandidate(), nil
	}

	analysis, err := u.analysisRepo.GetInterviewAnalysis(ctx, iv.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	detail.Analysis = analysis
	return detail, nil
}

func (u *interviewUsecase) ListForRecruiter(ctx context.Context, actor domain.Actor, page, pageSize int) ([]domain.Interview, int64, error) {
	limit, offset := pageBounds(page, pageSize)
	return u.interviewRepo.ListByRecruiter(ctx, actor.UserID, limit, offset)
}

func (u *interviewUsecase) ListForCandidate(ctx context.Context, actor domain.Actor, page, pageSize int) ([]domain.Interview, int64, error) {
	if actor.Email == "" {
		return nil, 0, apperror.Unauthorized("User email not available")
	}
	limit, offset := pageBounds(page, pageSize)
	return u.interviewRepo.ListByCandidateEmail(ctx, strings.ToLower(actor.Email), limit, offset)
}

// Start moves a pending interview to in_progress. Repeating it is harmless;
// started_at keeps the first value.
func (u *interviewUsecase) Start(ctx context.Context, actor domain.Actor, id int64) (*domain.Interview, error) {
	var out *domain.Interview
	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		iv, err := u.lockForCandidate(ctx, actor, id)
		if err != nil {
			return err
		}

		switch iv.Status {
		case domain.InterviewStatusInProgress:
		case domain.InterviewStatusPending:
			if err := u.begin(ctx, iv); err != nil {
				return err
			}
		default:
			return invalidState(fmt.Sprintf("Interview cannot be started from status %q", iv.Status))
		}

		out = iv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *interviewUsecase) SubmitResponses(ctx context.Context, actor domain.Actor, id int64, inputs []domain.ResponseInput) (*domain.SubmissionResult, error) {
	if len(inputs) == 0 {
		return nil, apperror.BadRequest("At least one response is required")
	}

	var result *domain.SubmissionResult
	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		iv, err := u.lockForCandidate(ctx, actor, id)
		if err != nil {
			return err
		}

		switch iv.Status {
		case domain.InterviewStatusCompleted:
			return apperror.New(http.StatusConflict, "Interview already completed", domain.ErrAlreadyCompleted).WithDetails(iv)
		case domain.InterviewStatusExpired:
			return invalidState("Interview has expired")
		}

		tmpl, err := u.templateRepo.GetByID(ctx, iv.TemplateID)
		if err != nil {
			return err
		}
		questions := indexQuestions(tmpl.Questions)

		if verr := validateResponses(inputs, questions); verr != nil {
			return validationFailed("Response validation failed", verr)
		}

		if iv.Status == domain.InterviewStatusPending {
			if err := u.begin(ctx, iv); err != nil {
				return err
			}
		}

		result = &domain.SubmissionResult{Interview: iv}

		for _, in := range inputs {
			resp := &domain.Response{
				InterviewID:     iv.ID,
				QuestionID:      in.QuestionID,
				TextResponse:    in.TextResponse,
				SelectedOption:  in.SelectedOption,
				VideoURL:        in.VideoURL,
				VideoTranscript: in.VideoTranscript,
				CreatedAt:       u.now(),
			}
			if err := u.responseRepo.Upsert(ctx, resp); err != nil {
				return err
			}

			q := questions[in.QuestionID]
			if _, err := u.scoreAndStore(ctx, q, resp); err != nil {
				var serr *domain.ScoringError
				if !errors.As(err, &serr) {
					return err
				}
				result.ScoringFailures = append(result.ScoringFailures, serr)
			}
		}

		complete, err := u.allRequiredAnswered(ctx, iv.ID, tmpl.Questions)
		if err != nil || !complete {
			return err
		}

		completedAt := u.now()
		swapped, err := u.interviewRepo.MarkCompleted(ctx, iv.ID, completedAt)
		if err != nil {
			return err
		}
		if !swapped {
			// lost the race to a concurrent submission, which also aggregates
			return nil
		}
		iv.Status = domain.InterviewStatusCompleted
		iv.CompletedAt = &completedAt
		iv.UpdatedAt = completedAt
		result.Completed = true

		// generateAnalysis retries every unscored response, so its failures
		// supersede the ones collected above
		analysis, failures, err := u.generateAnalysis(ctx, iv, tmpl)
		result.ScoringFailures = failures
		switch {
		case errors.Is(err, domain.ErrInsufficientData):
			result.AnalysisPending = true
		case err != nil:
			return err
		default:
			result.Analysis = analysis
		}

		logger.Log.Info("interview completed",
			"interview_id", iv.ID,
			"analysis_pending", result.AnalysisPending,
			"scoring_failures", len(result.ScoringFailures))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (u *interviewUsecase) IssueVideoUploadURL(ctx context.Context, actor domain.Actor, id int64) (*domain.UploadURL, error) {
	iv, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isInvitee(actor, iv) {
		return nil, apperror.Forbidden("You do not have access to this interview")
	}
	if iv.IsTerminal() {
		return nil, invalidState(fmt.Sprintf("Interview is %s", iv.Status))
	}
	if u.uploads == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "Video uploads are not configured", nil)
	}
	return u.uploads.IssueVideoUploadURL(ctx, iv.ID)
}

// ExpireOverdue moves open interviews past their due date to expired.
func (u *interviewUsecase) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	ids, err := u.interviewRepo.ExpireOverdue(ctx, now)
	if err != nil {
		return 0, err
	}
	if len(ids) > 0 {
		logger.Log.Info("expired overdue interviews", "count", len(ids), "ids", ids)
	}
	return len(ids), nil
}

func (u *interviewUsecase) load(ctx context.Context, id int64) (*domain.Interview, error) {
	iv, err := u.interviewRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Interview not found")
		}
		return nil, err
	}
	return iv, nil
}

func (u *interviewUsecase) lockForCandidate(ctx context.Context, actor domain.Actor, id int64) (*domain.Interview, error) {
	iv, err := u.interviewRepo.GetForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Interview not found")
		}
		return nil, err
	}
	if !isInvitee(actor, iv) {
		return nil, apperror.Forbidden("You do not have access to this interview")
	}
	return iv, nil
}

// begin performs pending → in_progress on a locked row. An interview past its
// due date is treated as expired even if the sweeper has not reached it yet.
func (u *interviewUsecase) begin(ctx context.Context, iv *domain.Interview) error {
	now := u.now()
	if iv.DueDate != nil && now.After(*iv.DueDate) {
		return invalidState("Interview is past its due date")
	}
	if err := u.interviewRepo.MarkStarted(ctx, iv.ID, now); err != nil {
		return err
	}
	iv.Status = domain.InterviewStatusInProgress
	if iv.StartedAt == nil {
		iv.StartedAt = &now
	}
	iv.UpdatedAt = now
	return nil
}

func (u *interviewUsecase) allRequiredAnswered(ctx context.Context, interviewID int64, questions []domain.Question) (bool, error) {
	answeredIDs, err := u.responseRepo.AnsweredQuestionIDs(ctx, interviewID)
	if err != nil {
		return false, err
	}
	answered := make(map[int64]struct{}, len(answeredIDs))
	for _, id := range answeredIDs {
		answered[id] = struct{}{}
	}
	for _, q := range questions {
		if !q.Required {
			continue
		}
		if _, ok := answered[q.ID]; !ok {
			return false, nil
		}
	}
	return true, nil
}

func canManage(actor domain.Actor, iv *domain.Interview) bool {
	return actor.Role == domain.RoleAdmin || iv.RecruiterID == actor.UserID
}

func isInvitee(actor domain.Actor, iv *domain.Interview) bool {
	if iv.CandidateUserID != nil && *iv.CandidateUserID == actor.UserID {
		return true
	}
	return actor.Email != "" && strings.EqualFold(iv.CandidateEmail, actor.Email)
}

func invalidState(message string) *apperror.AppError {
	return apperror.New(http.StatusConflict, message, domain.ErrInvalidState)
}

func indexQuestions(questions []domain.Question) map[int64]domain.Question {
	out := make(map[int64]domain.Question, len(questions))
	for _, q := range questions {
		out[q.ID] = q
	}
	return out
}
