package postgres

import (
	"context"

	"go-interview-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type analysisRepo struct {
	db *pgxpool.Pool
}

func NewAnalysisRepository(db *pgxpool.Pool) domain.AnalysisRepository {
	return &analysisRepo{db: db}
}

func (r *analysisRepo) CreateResponseAnalysis(ctx context.Context, a *domain.ResponseAnalysis) error {
	query := `INSERT INTO response_analyses (response_id, score, strengths, weaknesses, notes, keywords, sentiment, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := conn(ctx, r.db).QueryRow(ctx, query,
		a.ResponseID, a.Score, pq.Array(nonNil(a.Strengths)), pq.Array(nonNil(a.Weaknesses)), a.Notes,
		pq.Array(nonNil(a.Keywords)), a.Sentiment, a.CreatedAt,
	).Scan(&a.ID)
	return mapError(err)
}

func (r *analysisRepo) GetInterviewAnalysis(ctx context.Context, interviewID int64) (*domain.InterviewAnalysis, error) {
	query := `SELECT id, interview_id, overall_score, recommendation, COALESCE(strengths, '{}'), COALESCE(weaknesses, '{}'), created_at, updated_at
              FROM interview_analyses WHERE interview_id = $1`
	var a domain.InterviewAnalysis
	err := conn(ctx, r.db).QueryRow(ctx, query, interviewID).Scan(
		&a.ID, &a.InterviewID, &a.OverallScore, &a.Recommendation, pq.Array(&a.Strengths), pq.Array(&a.Weaknesses), &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &a, nil
}

// UpsertInterviewAnalysis keeps one row per interview; a second write
// overwrites the first.
func (r *analysisRepo) UpsertInterviewAnalysis(ctx context.Context, a *domain.InterviewAnalysis) error {
	query := `INSERT INTO interview_analyses (interview_id, overall_score, recommendation, strengths, weaknesses, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
              ON CONFLICT (interview_id) DO UPDATE SET
                  overall_score = EXCLUDED.overall_score,
                  recommendation = EXCLUDED.recommendation,
                  strengths = EXCLUDED.strengths,
                  weaknesses = EXCLUDED.weaknesses,
                  updated_at = NOW()
              RETURNING id, created_at, updated_at`
	err := conn(ctx, r.db).QueryRow(ctx, query,
		a.InterviewID, a.OverallScore, a.Recommendation, pq.Array(nonNil(a.Strengths)), pq.Array(nonNil(a.Weaknesses)),
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return mapError(err)
}

func (r *analysisRepo) DeleteInterviewAnalysis(ctx context.Context, interviewID int64) error {
	_, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM interview_analyses WHERE interview_id = $1`, interviewID)
	return mapError(err)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
