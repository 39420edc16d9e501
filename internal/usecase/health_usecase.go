package usecase

import (
	"context"
	"time"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

// Pinger is satisfied by *pgxpool.Pool and redis.Pinger.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthUsecase struct {
	db    Pinger
	cache Pinger
}

// NewHealthUsecase accepts a nil cache when Redis is not configured.
func NewHealthUsecase(db Pinger, cache Pinger) HealthUsecase {
	return &healthUsecase{db: db, cache: cache}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	status["database"] = probe(ctx, u.db)
	status["cache"] = probe(ctx, u.cache)
	if status["database"] == "unreachable" {
		status["status"] = "degraded"
	}
	return status
}

func probe(ctx context.Context, p Pinger) string {
	if p == nil {
		return "not configured"
	}
	if err := p.Ping(ctx); err != nil {
		return "unreachable"
	}
	return "ok"
}
