package postgres

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is what both *pgxpool.Pool and pgx.Tx offer.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

// conn returns the transaction carried by ctx, or the pool.
func conn(ctx context.Context, db *pgxpool.Pool) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db
}

type transactor struct {
	db *pgxpool.Pool
}

func NewTransactor(db *pgxpool.Pool) domain.Transactor {
	return &transactor{db: db}
}

// WithinTransaction joins an already running transaction instead of nesting.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return runInTx(ctx, t.db, fn)
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// mapError turns driver errors into domain errors the use cases understand.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return apperror.New(http.StatusConflict, "Resource already exists", err)
		case pgerrcode.ForeignKeyViolation:
			return apperror.New(http.StatusConflict, "Referenced resource is missing or still in use", err)
		case pgerrcode.CheckViolation:
			return apperror.New(http.StatusBadRequest, "Value out of allowed range", err)
		}
	}
	return err
}
