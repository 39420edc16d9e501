package postgres

import (
	"context"

	"go-interview-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const templateColumns = `id, creator_id, title, description, version, is_active, created_at, updated_at`

const questionColumns = `id, template_id, text, type, options, time_limit, required, "order", created_at`

type templateRepo struct {
	db *pgxpool.Pool
}

func NewTemplateRepository(db *pgxpool.Pool) domain.TemplateRepository {
	return &templateRepo{db: db}
}

func (r *templateRepo) Create(ctx context.Context, t *domain.Template) error {
	return runInTx(ctx, r.db, func(ctx context.Context) error {
		query := `INSERT INTO interview_templates (creator_id, title, description, version, is_active, created_at, updated_at)
                  VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
		err := conn(ctx, r.db).QueryRow(ctx, query,
			t.CreatorID, t.Title, t.Description, t.Version, t.IsActive, t.CreatedAt, t.UpdatedAt,
		).Scan(&t.ID)
		if err != nil {
			return mapError(err)
		}
		return r.insertQuestions(ctx, t)
	})
}

func (r *templateRepo) insertQuestions(ctx context.Context, t *domain.Template) error {
	query := `INSERT INTO questions (template_id, text, type, options, time_limit, required, "order", created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	for i := range t.Questions {
		q := &t.Questions[i]
		q.TemplateID = t.ID
		var options interface{}
		if len(q.Options) > 0 {
			options = pq.Array(q.Options)
		}
		err := conn(ctx, r.db).QueryRow(ctx, query,
			q.TemplateID, q.Text, q.Type, options, q.TimeLimit, q.Required, q.Order, q.CreatedAt,
		).Scan(&q.ID)
		if err != nil {
			return mapError(err)
		}
	}
	return nil
}

func (r *templateRepo) GetByID(ctx context.Context, id int64) (*domain.Template, error) {
	var t domain.Template
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT `+templateColumns+` FROM interview_templates WHERE id = $1`, id).Scan(
		&t.ID, &t.CreatorID, &t.Title, &t.Description, &t.Version, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}

	byTemplate, err := r.questionsFor(ctx, []int64{t.ID})
	if err != nil {
		return nil, err
	}
	t.Questions = byTemplate[t.ID]
	return &t, nil
}

func (r *templateRepo) questionsFor(ctx context.Context, templateIDs []int64) (map[int64][]domain.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE template_id = ANY($1) ORDER BY template_id, "order"`
	rows, err := conn(ctx, r.db).Query(ctx, query, pq.Array(templateIDs))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make(map[int64][]domain.Question, len(templateIDs))
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(
			&q.ID, &q.TemplateID, &q.Text, &q.Type, pq.Array(&q.Options), &q.TimeLimit, &q.Required, &q.Order, &q.CreatedAt,
		); err != nil {
			return nil, err
		}
		out[q.TemplateID] = append(out[q.TemplateID], q)
	}
	return out, rows.Err()
}

func (r *templateRepo) ListByCreator(ctx context.Context, creatorID string, limit, offset int) ([]domain.Template, int64, error) {
	var total int64
	if err := conn(ctx, r.db).QueryRow(ctx,
		`SELECT COUNT(*) FROM interview_templates WHERE creator_id = $1`, creatorID,
	).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	query := `SELECT ` + templateColumns + ` FROM interview_templates
              WHERE creator_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := conn(ctx, r.db).Query(ctx, query, creatorID, limit, offset)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var (
		templates []domain.Template
		ids       []int64
	)
	for rows.Next() {
		var t domain.Template
		if err := rows.Scan(&t.ID, &t.CreatorID, &t.Title, &t.Description, &t.Version, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		templates = append(templates, t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	rows.Close()

	if len(ids) == 0 {
		return templates, total, nil
	}
	byTemplate, err := r.questionsFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range templates {
		templates[i].Questions = byTemplate[templates[i].ID]
	}
	return templates, total, nil
}

// Update rewrites the question set; callers make sure no interview uses the template.
func (r *templateRepo) Update(ctx context.Context, t *domain.Template) error {
	return runInTx(ctx, r.db, func(ctx context.Context) error {
		query := `UPDATE interview_templates SET title = $2, description = $3, version = $4, is_active = $5, updated_at = $6
                  WHERE id = $1`
		tag, err := conn(ctx, r.db).Exec(ctx, query, t.ID, t.Title, t.Description, t.Version, t.IsActive, t.UpdatedAt)
		if err != nil {
			return mapError(err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		if _, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM questions WHERE template_id = $1`, t.ID); err != nil {
			return mapError(err)
		}
		return r.insertQuestions(ctx, t)
	})
}

func (r *templateRepo) Delete(ctx context.Context, id int64) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM interview_templates WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *templateRepo) CountInterviews(ctx context.Context, templateID int64) (int64, error) {
	var n int64
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM interviews WHERE template_id = $1`, templateID).Scan(&n)
	return n, mapError(err)
}
