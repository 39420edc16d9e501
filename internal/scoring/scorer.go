// Package scoring holds the per-response Scorer implementations and the
// Aggregator that turns response analyses into an interview verdict.
package scoring

import (
	"context"
	"fmt"
	"math"
	"time"

	"go-interview-backend/internal/domain"
)

// Scorer assesses one candidate response.
type Scorer interface {
	Score(ctx context.Context, req domain.ScoreRequest) (*domain.ScoreResult, error)
}

// Provider names accepted by NewScorer
const (
	ProviderMock     = "mock"
	ProviderVertexAI = "vertexai"
)

// Options selects and tunes the Scorer built at startup.
type Options struct {
	Provider    string
	Timeout     time.Duration
	MaxAttempts int
	Vertex      VertexOptions
}

// NewScorer builds the configured Scorer wrapped in retries. The returned
// close func releases provider clients.
func NewScorer(ctx context.Context, opts Options) (Scorer, func() error, error) {
	var (
		base    Scorer
		closeFn = func() error { return nil }
	)

	switch opts.Provider {
	case "", ProviderMock:
		base = NewHeuristicScorer()
	case ProviderVertexAI:
		vs, err := NewVertexScorer(ctx, opts.Vertex)
		if err != nil {
			return nil, nil, err
		}
		base = vs
		closeFn = vs.Close
	default:
		return nil, nil, fmt.Errorf("unknown scorer provider %q", opts.Provider)
	}

	return NewRetryingScorer(base, RetryOptions{
		MaxAttempts: opts.MaxAttempts,
		Timeout:     opts.Timeout,
	}), closeFn, nil
}

// normalize clamps the score into range and fills defaults a provider may omit.
func normalize(res *domain.ScoreResult) *domain.ScoreResult {
	if math.IsNaN(res.Score) {
		res.Score = domain.MinScore
	}
	res.Score = math.Max(domain.MinScore, math.Min(domain.MaxScore, res.Score))
	if res.Strengths == nil {
		res.Strengths = []string{}
	}
	if res.Weaknesses == nil {
		res.Weaknesses = []string{}
	}
	if res.Keywords == nil {
		res.Keywords = []string{}
	}
	switch res.Sentiment {
	case domain.SentimentPositive, domain.SentimentNeutral, domain.SentimentNegative:
	default:
		res.Sentiment = sentimentFor(res.Score)
	}
	return res
}

func sentimentFor(score float64) string {
	switch {
	case score >= 4:
		return domain.SentimentPositive
	case score <= 2:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}
