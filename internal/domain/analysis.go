package domain

import (
	"context"
	"time"
)

// Sentiment values produced by scorers
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Score range of both response and interview analyses
const (
	MinScore = 0.0
	MaxScore = 5.0
)

// ScoreRequest is what a Scorer sees of one response. For video answers
// Answer is the transcript, never the URL.
type ScoreRequest struct {
	QuestionType string
	QuestionText string
	Answer       string
	Options      []string
}

// ScoreResult is the Scorer's assessment of one response.
type ScoreResult struct {
	Score      float64  `json:"score"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	Notes      string   `json:"notes"`
	Keywords   []string `json:"keywords"`
	Sentiment  string   `json:"sentiment"`
}

// ResponseAnalysis is written once per response; regeneration replaces it.
type ResponseAnalysis struct {
	ID         int64     `json:"id"`
	ResponseID int64     `json:"response_id"`
	Score      float64   `json:"score"`
	Strengths  []string  `json:"strengths"`
	Weaknesses []string  `json:"weaknesses"`
	Notes      string    `json:"notes"`
	Keywords   []string  `json:"keywords"`
	Sentiment  string    `json:"sentiment"`
	CreatedAt  time.Time `json:"created_at"`
}

// InterviewAnalysis is the aggregate verdict, one row per completed interview.
type InterviewAnalysis struct {
	ID             int64     `json:"id"`
	InterviewID    int64     `json:"interview_id"`
	OverallScore   float64   `json:"overall_score"`
	Recommendation string    `json:"recommendation"`
	Strengths      []string  `json:"strengths"`
	Weaknesses     []string  `json:"weaknesses"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// InterviewAnalysisView is the recruiter-facing analysis payload.
type InterviewAnalysisView struct {
	InterviewID   int64              `json:"interview_id"`
	CandidateName string             `json:"candidate_name"`
	TemplateTitle string             `json:"template_title"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty"`
	Analysis      *InterviewAnalysis `json:"analysis"`
	Responses     []Response         `json:"responses"`
}

type AnalysisRepository interface {
	CreateResponseAnalysis(ctx context.Context, a *ResponseAnalysis) error
	GetInterviewAnalysis(ctx context.Context, interviewID int64) (*InterviewAnalysis, error)
	UpsertInterviewAnalysis(ctx context.Context, a *InterviewAnalysis) error
	DeleteInterviewAnalysis(ctx context.Context, interviewID int64) error
}
