package postgres

import (
	"context"
	"time"

	"go-interview-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type analyticsRepo struct {
	db *pgxpool.Pool
}

func NewAnalyticsRepository(db *pgxpool.Pool) domain.AnalyticsRepository {
	return &analyticsRepo{db: db}
}

func (r *analyticsRepo) GetRecruiterCounts(ctx context.Context, recruiterID string) (*domain.RecruiterCounts, error) {
	out := &domain.RecruiterCounts{ByStatus: map[string]int64{}}
	q := conn(ctx, r.db)

	err := q.QueryRow(ctx,
		`SELECT COUNT(DISTINCT lower(candidate_email)) FROM interviews WHERE recruiter_id = $1`, recruiterID,
	).Scan(&out.DistinctCandidates)
	if err != nil {
		return nil, mapError(err)
	}

	rows, err := q.Query(ctx, `SELECT status, COUNT(*) FROM interviews WHERE recruiter_id = $1 GROUP BY status`, recruiterID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out.ByStatus[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	err = q.QueryRow(ctx, `
		SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (completed_at - started_at)) / 60), 0)::float8
		FROM interviews
		WHERE recruiter_id = $1 AND status = 'completed' AND started_at IS NOT NULL AND completed_at IS NOT NULL`,
		recruiterID,
	).Scan(&out.AvgCompletionMinutes)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *analyticsRepo) ListActivitySince(ctx context.Context, recruiterID string, since time.Time) ([]domain.InterviewActivity, error) {
	rows, err := conn(ctx, r.db).Query(ctx,
		`SELECT created_at, status FROM interviews WHERE recruiter_id = $1 AND created_at >= $2 ORDER BY created_at`,
		recruiterID, since,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []domain.InterviewActivity
	for rows.Next() {
		var a domain.InterviewActivity
		if err := rows.Scan(&a.CreatedAt, &a.Status); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *analyticsRepo) ListOverallScores(ctx context.Context, recruiterID string) ([]float64, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT ia.overall_score
		FROM interview_analyses ia
		JOIN interviews i ON i.id = ia.interview_id
		WHERE i.recruiter_id = $1`, recruiterID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []float64
	for rows.Next() {
		var s float64
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *analyticsRepo) ListResults(ctx context.Context, recruiterID string, limit int) ([]domain.InterviewResultRow, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT i.id, i.candidate_name, i.candidate_email, t.title, i.status, i.started_at, i.completed_at,
		       ia.overall_score, ia.recommendation, COALESCE(ia.strengths, '{}'), COALESCE(ia.weaknesses, '{}')
		FROM interviews i
		JOIN interview_templates t ON t.id = i.template_id
		LEFT JOIN interview_analyses ia ON ia.interview_id = i.id
		WHERE i.recruiter_id = $1
		ORDER BY i.created_at DESC
		LIMIT $2`, recruiterID, limit)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []domain.InterviewResultRow
	for rows.Next() {
		var row domain.InterviewResultRow
		if err := rows.Scan(
			&row.InterviewID, &row.CandidateName, &row.CandidateEmail, &row.TemplateTitle, &row.Status, &row.StartedAt, &row.CompletedAt,
			&row.OverallScore, &row.Recommendation, pq.Array(&row.Strengths), pq.Array(&row.Weaknesses),
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
