package postgres

import (
	"context"

	"go-interview-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, email, role, first_name, last_name, company, created_at, updated_at`

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, email, role, first_name, last_name, company, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := conn(ctx, r.db).Exec(ctx, query,
		user.ID, user.Email, user.Role, user.FirstName, user.LastName, user.Company, user.CreatedAt, user.UpdatedAt,
	)
	return mapError(err)
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *userRepo) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	err := conn(ctx, r.db).QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.Role, &user.FirstName, &user.LastName, &user.Company,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET email = $2, role = $3, first_name = $4, last_name = $5, company = $6, updated_at = $7
              WHERE id = $1`
	tag, err := conn(ctx, r.db).Exec(ctx, query,
		user.ID, user.Email, user.Role, user.FirstName, user.LastName, user.Company, user.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
