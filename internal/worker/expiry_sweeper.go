package worker

import (
	"context"
	"time"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/logger"
)

// ExpirySweeper periodically moves overdue pending and in-progress
// interviews to expired.
type ExpirySweeper struct {
	interviews domain.InterviewUsecase
	interval   time.Duration
	now        func() time.Time
}

func NewExpirySweeper(interviews domain.InterviewUsecase, interval time.Duration) *ExpirySweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &ExpirySweeper{interviews: interviews, interval: interval, now: time.Now}
}

// Run sweeps once immediately, then every interval until ctx is done.
func (s *ExpirySweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.SweepOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// SweepOnce returns how many interviews were expired. Failures are logged
// and retried on the next tick.
func (s *ExpirySweeper) SweepOnce(ctx context.Context) int {
	n, err := s.interviews.ExpireOverdue(ctx, s.now().UTC())
	if err != nil {
		if ctx.Err() == nil {
			logger.Log.Error("expiry sweep failed", "error", err)
		}
		return 0
	}
	if n > 0 {
		logger.Log.Info("expired overdue interviews", "count", n)
	}
	return n
}
