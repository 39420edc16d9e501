package postgres

import (
	"context"
	"time"

	"go-interview-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const interviewColumns = `id, template_id, recruiter_id, candidate_user_id, candidate_email, candidate_name, status,
	due_date, started_at, completed_at, created_at, updated_at`

type interviewRepo struct {
	db *pgxpool.Pool
}

func NewInterviewRepository(db *pgxpool.Pool) domain.InterviewRepository {
	return &interviewRepo{db: db}
}

func scanInterview(row pgx.Row) (*domain.Interview, error) {
	var iv domain.Interview
	err := row.Scan(
		&iv.ID, &iv.TemplateID, &iv.RecruiterID, &iv.CandidateUserID, &iv.CandidateEmail, &iv.CandidateName, &iv.Status,
		&iv.DueDate, &iv.StartedAt, &iv.CompletedAt, &iv.CreatedAt, &iv.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &iv, nil
}

func (r *interviewRepo) Create(ctx context.Context, iv *domain.Interview) error {
	query := `INSERT INTO interviews (template_id, recruiter_id, candidate_user_id, candidate_email, candidate_name, status, due_date, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := conn(ctx, r.db).QueryRow(ctx, query,
		iv.TemplateID, iv.RecruiterID, iv.CandidateUserID, iv.CandidateEmail, iv.CandidateName, iv.Status,
		iv.DueDate, iv.CreatedAt, iv.UpdatedAt,
	).Scan(&iv.ID)
	return mapError(err)
}

func (r *interviewRepo) GetByID(ctx context.Context, id int64) (*domain.Interview, error) {
	return scanInterview(conn(ctx, r.db).QueryRow(ctx, `SELECT `+interviewColumns+` FROM interviews WHERE id = $1`, id))
}

// GetForUpdate must run inside WithinTransaction, otherwise the lock is
// released as soon as the statement finishes.
func (r *interviewRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Interview, error) {
	return scanInterview(conn(ctx, r.db).QueryRow(ctx, `SELECT `+interviewColumns+` FROM interviews WHERE id = $1 FOR UPDATE`, id))
}

func (r *interviewRepo) list(ctx context.Context, where string, arg any, limit, offset int) ([]domain.Interview, int64, error) {
	var total int64
	if err := conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM interviews WHERE `+where, arg).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE ` + where + ` ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := conn(ctx, r.db).Query(ctx, query, arg, limit, offset)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var out []domain.Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *iv)
	}
	return out, total, rows.Err()
}

func (r *interviewRepo) ListByRecruiter(ctx context.Context, recruiterID string, limit, offset int) ([]domain.Interview, int64, error) {
	return r.list(ctx, `recruiter_id = $1`, recruiterID, limit, offset)
}

func (r *interviewRepo) ListByCandidateEmail(ctx context.Context, email string, limit, offset int) ([]domain.Interview, int64, error) {
	return r.list(ctx, `lower(candidate_email) = lower($1)`, email, limit, offset)
}

func (r *interviewRepo) MarkStarted(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE interviews
              SET status = 'in_progress', started_at = COALESCE(started_at, $2), updated_at = $2
              WHERE id = $1 AND status = 'pending'`
	_, err := conn(ctx, r.db).Exec(ctx, query, id, at)
	return mapError(err)
}

func (r *interviewRepo) MarkCompleted(ctx context.Context, id int64, at time.Time) (bool, error) {
	query := `UPDATE interviews
              SET status = 'completed', completed_at = COALESCE(completed_at, $2), updated_at = $2
              WHERE id = $1 AND status <> 'completed'`
	tag, err := conn(ctx, r.db).Exec(ctx, query, id, at)
	if err != nil {
		return false, mapError(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *interviewRepo) ExpireOverdue(ctx context.Context, now time.Time) ([]int64, error) {
	query := `UPDATE interviews
              SET status = 'expired', updated_at = $1
              WHERE status IN ('pending', 'in_progress') AND due_date IS NOT NULL AND due_date < $1
              RETURNING id`
	rows, err := conn(ctx, r.db).Query(ctx, query, now)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
