package domain

import (
	"context"
	"time"
)

// ChartData is shaped for the dashboard charts.
type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

type ChartDataset struct {
	Label string `json:"label"`
	Data  []int  `json:"data"`
}

type RecruiterAnalytics struct {
	TotalCandidates     int64     `json:"total_candidates"`
	PendingInterviews   int64     `json:"pending_interviews"`
	InProgress          int64     `json:"in_progress_interviews"`
	CompletedInterviews int64     `json:"completed_interviews"`
	ExpiredInterviews   int64     `json:"expired_interviews"`
	AvgCompletionTime   float64   `json:"avg_completion_time"` // minutes
	CompletionRate      float64   `json:"completion_rate"`     // percentage
	InterviewsByDay     ChartData `json:"interviews_by_day"`
	ScoresDistribution  ChartData `json:"scores_distribution"`
}

// RecruiterCounts are the raw aggregates the dashboard is built from.
type RecruiterCounts struct {
	DistinctCandidates   int64
	ByStatus             map[string]int64
	AvgCompletionMinutes float64
}

// InterviewActivity is one interview created inside the dashboard window.
type InterviewActivity struct {
	CreatedAt time.Time
	Status    string
}

// InterviewResultRow is one line of the recruiter results export.
type InterviewResultRow struct {
	InterviewID    int64
	CandidateName  string
	CandidateEmail string
	TemplateTitle  string
	Status         string
	StartedAt      *time.Time
	CompletedAt    *time.Time
	OverallScore   *float64
	Recommendation *string
	Strengths      []string
	Weaknesses     []string
}

type AnalyticsRepository interface {
	GetRecruiterCounts(ctx context.Context, recruiterID string) (*RecruiterCounts, error)
	ListActivitySince(ctx context.Context, recruiterID string, since time.Time) ([]InterviewActivity, error)
	ListOverallScores(ctx context.Context, recruiterID string) ([]float64, error)
	ListResults(ctx context.Context, recruiterID string, limit int) ([]InterviewResultRow, error)
}

type AnalyticsUsecase interface {
	GetRecruiterDashboard(ctx context.Context, actor Actor) (*RecruiterAnalytics, error)
	ExportResults(ctx context.Context, actor Actor) ([]byte, string, error)
}
