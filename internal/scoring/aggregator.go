package scoring

import (
	"fmt"
	"math"
	"sort"

	"go-interview-backend/internal/domain"
)

const topItems = 3

// Aggregator folds scored responses into an InterviewAnalysis.
type Aggregator struct {
	bands Bands
}

func NewAggregator(bands Bands) *Aggregator {
	return &Aggregator{bands: bands}
}

// Aggregate is pure: the same analyses always give the same verdict. It
// fails with domain.ErrInsufficientData when nothing was scored.
func (a *Aggregator) Aggregate(interviewID int64, analyses []domain.ResponseAnalysis) (*domain.InterviewAnalysis, error) {
	if len(analyses) == 0 {
		return nil, fmt.Errorf("interview %d: %w", interviewID, domain.ErrInsufficientData)
	}

	var (
		sum        float64
		strengths  []string
		weaknesses []string
	)
	for _, ra := range analyses {
		sum += ra.Score
		strengths = append(strengths, ra.Strengths...)
		weaknesses = append(weaknesses, ra.Weaknesses...)
	}

	overall := roundTenth(sum / float64(len(analyses)))
	overall = math.Max(domain.MinScore, math.Min(domain.MaxScore, overall))

	return &domain.InterviewAnalysis{
		InterviewID:    interviewID,
		OverallScore:   overall,
		Recommendation: a.bands.Recommend(overall),
		Strengths:      topByFrequency(strengths, topItems),
		Weaknesses:     topByFrequency(weaknesses, topItems),
	}, nil
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// topByFrequency keeps at most n distinct items, most frequent first, equal
// counts in first-seen order. It never pads.
func topByFrequency(items []string, n int) []string {
	counts := make(map[string]int, len(items))
	order := make([]string, 0, len(items))
	for _, it := range items {
		if _, seen := counts[it]; !seen {
			order = append(order, it)
		}
		counts[it]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}
	return order
}
