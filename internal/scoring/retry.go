package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/logger"
)

type RetryOptions struct {
	MaxAttempts int
	// Timeout bounds each attempt, not the whole call
	Timeout time.Duration
	Backoff time.Duration
}

// RetryingScorer retries a Scorer a bounded number of times.
type RetryingScorer struct {
	next Scorer
	opts RetryOptions
}

func NewRetryingScorer(next Scorer, opts RetryOptions) *RetryingScorer {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 200 * time.Millisecond
	}
	return &RetryingScorer{next: next, opts: opts}
}

func (s *RetryingScorer) Score(ctx context.Context, req domain.ScoreRequest) (*domain.ScoreResult, error) {
	var lastErr error
	for attempt := 1; attempt <= s.opts.MaxAttempts; attempt++ {
		res, err := s.attempt(ctx, req)
		if err == nil {
			return res, nil
		}
		lastErr = err

		// caller gave up, further attempts cannot succeed
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt == s.opts.MaxAttempts {
			break
		}

		logger.Log.Warn("scorer attempt failed", "attempt", attempt, "error", err)

		wait := s.opts.Backoff * time.Duration(1<<(attempt-1))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, fmt.Errorf("scorer failed after %d attempts: %w", s.opts.MaxAttempts, lastErr)
}

func (s *RetryingScorer) attempt(ctx context.Context, req domain.ScoreRequest) (*domain.ScoreResult, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}
	res, err := s.next.Score(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("scorer timed out after %s: %w", s.opts.Timeout, err)
		}
		return nil, err
	}
	if res == nil {
		return nil, errors.New("scorer returned no result")
	}
	return res, nil
}
