package domain

import (
	"context"
	"time"
)

// Interview status constants
const (
	InterviewStatusPending    = "pending"
	InterviewStatusInProgress = "in_progress"
	InterviewStatusCompleted  = "completed"
	InterviewStatusExpired    = "expired"
)

// Interview is one candidate's run through one template.
// pending → in_progress → completed; pending / in_progress → expired
type Interview struct {
	ID              int64      `json:"id"`
	TemplateID      int64      `json:"template_id"`
	RecruiterID     string     `json:"recruiter_id"`
	CandidateUserID *string    `json:"candidate_user_id,omitempty"`
	CandidateEmail  string     `json:"candidate_email"`
	CandidateName   string     `json:"candidate_name"`
	Status          string     `json:"status"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsTerminal reports whether no further transition is possible.
func (i *Interview) IsTerminal() bool {
	return i.Status == InterviewStatusCompleted || i.Status == InterviewStatusExpired
}

// Response answers one question. Exactly one of TextResponse, SelectedOption
// and VideoURL is set, matching the question type.
type Response struct {
	ID              int64             `json:"id"`
	InterviewID     int64             `json:"interview_id"`
	QuestionID      int64             `json:"question_id"`
	TextResponse    *string           `json:"text_response,omitempty"`
	SelectedOption  *string           `json:"selected_option,omitempty"`
	VideoURL        *string           `json:"video_url,omitempty"`
	VideoTranscript *string           `json:"video_transcript,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	Analysis        *ResponseAnalysis `json:"analysis,omitempty"`
}

type ResponseInput struct {
	QuestionID      int64   `json:"question_id" binding:"required"`
	TextResponse    *string `json:"text_response"`
	SelectedOption  *string `json:"selected_option"`
	VideoURL        *string `json:"video_url"`
	VideoTranscript *string `json:"video_transcript"`
}

type CreateInterviewInput struct {
	TemplateID     int64      `json:"template_id" binding:"required"`
	CandidateEmail string     `json:"candidate_email" binding:"required,email"`
	CandidateName  string     `json:"candidate_name" binding:"required"`
	DueDate        *time.Time `json:"due_date"`
}

// InterviewDetail is an interview with its template, responses and analysis.
type InterviewDetail struct {
	Interview
	Template  *Template          `json:"template"`
	Responses []Response         `json:"responses"`
	Analysis  *InterviewAnalysis `json:"analysis,omitempty"`
}

// ForCandidate strips everything a candidate must not see.
func (d *InterviewDetail) ForCandidate() *InterviewDetail {
	out := *d
	out.Analysis = nil
	out.Responses = make([]Response, len(d.Responses))
	for i, r := range d.Responses {
		r.Analysis = nil
		out.Responses[i] = r
	}
	return &out
}

// SubmissionResult is what a submission produced. ScoringFailures lists the
// responses persisted without an analysis.
type SubmissionResult struct {
	Interview       *Interview         `json:"interview"`
	Completed       bool               `json:"completed"`
	Analysis        *InterviewAnalysis `json:"analysis,omitempty"`
	AnalysisPending bool               `json:"analysis_pending"`
	ScoringFailures []*ScoringError    `json:"scoring_failures,omitempty"`
}

// Invitation is the data handed to the Notifier when an interview is created.
type Invitation struct {
	InterviewID    int64
	CandidateEmail string
	CandidateName  string
	TemplateTitle  string
	DueDate        *time.Time
	InterviewLink  string
}

// DeliveryResult carries the success flag and delivery metadata of a notification.
type DeliveryResult struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

type Notifier interface {
	SendInvitation(ctx context.Context, inv Invitation) (*DeliveryResult, error)
}

// UploadURL is a pre-signed upload target.
type UploadURL struct {
	UploadURL string `json:"upload_url"`
	FilePath  string `json:"file_path"`
	PublicURL string `json:"public_url"`
	ExpiresIn int    `json:"expires_in"` // seconds
}

type UploadURLIssuer interface {
	IssueVideoUploadURL(ctx context.Context, interviewID int64) (*UploadURL, error)
}

type InterviewInvitation struct {
	Interview *Interview      `json:"interview"`
	EmailSent *DeliveryResult `json:"email_sent"`
}

// Transactor runs fn in one database transaction; repositories called with
// the ctx passed to fn take part in it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type InterviewRepository interface {
	Create(ctx context.Context, iv *Interview) error
	GetByID(ctx context.Context, id int64) (*Interview, error)
	// GetForUpdate locks the interview row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*Interview, error)
	ListByRecruiter(ctx context.Context, recruiterID string, limit, offset int) ([]Interview, int64, error)
	ListByCandidateEmail(ctx context.Context, email string, limit, offset int) ([]Interview, int64, error)
	MarkStarted(ctx context.Context, id int64, at time.Time) error
	// MarkCompleted is a compare-and-swap; false means another caller completed it first.
	MarkCompleted(ctx context.Context, id int64, at time.Time) (bool, error)
	ExpireOverdue(ctx context.Context, now time.Time) ([]int64, error)
}

type ResponseRepository interface {
	// Upsert replaces an earlier answer to the same question and drops its analysis.
	Upsert(ctx context.Context, r *Response) error
	ListByInterview(ctx context.Context, interviewID int64) ([]Response, error)
	AnsweredQuestionIDs(ctx context.Context, interviewID int64) ([]int64, error)
}

type InterviewUsecase interface {
	CreateInterview(ctx context.Context, actor Actor, input *CreateInterviewInput) (*InterviewInvitation, error)
	GetInterview(ctx context.Context, actor Actor, id int64) (*InterviewDetail, error)
	ListForRecruiter(ctx context.Context, actor Actor, page, pageSize int) ([]Interview, int64, error)
	ListForCandidate(ctx context.Context, actor Actor, page, pageSize int) ([]Interview, int64, error)
	Start(ctx context.Context, actor Actor, id int64) (*Interview, error)
	SubmitResponses(ctx context.Context, actor Actor, id int64, responses []ResponseInput) (*SubmissionResult, error)
	IssueVideoUploadURL(ctx context.Context, actor Actor, id int64) (*UploadURL, error)
	GetAnalysis(ctx context.Context, actor Actor, id int64) (*InterviewAnalysisView, error)
	RegenerateAnalysis(ctx context.Context, actor Actor, id int64) (*InterviewAnalysisView, error)
	ExpireOverdue(ctx context.Context, now time.Time) (int, error)
}
