package scoring

import (
	"context"
	"fmt"
	"hash/fnv"
	"slices"
	"strings"

	"go-interview-backend/internal/domain"
)

var heuristicStrengths = []string{
	"Clear and concise communication",
	"Strong problem-solving approach",
	"Excellent technical knowledge",
	"Good understanding of system design",
	"Proactive attitude toward challenges",
	"Strong teamwork orientation",
	"Analytical thinking",
	"Attention to detail",
}

var heuristicWeaknesses = []string{
	"Could provide more specific examples",
	"Response lacks depth in some areas",
	"Limited explanation of thought process",
	"Incomplete understanding of the question",
	"Limited discussion of alternative approaches",
	"Missing consideration of edge cases",
}

var heuristicKeywords = []string{
	"algorithm", "architecture", "collaboration", "communication", "design",
	"efficiency", "experience", "implementation", "leadership", "optimization",
	"scalability", "testing",
}

// HeuristicScorer is the development Scorer. It never calls out and the same
// request always yields the same result.
type HeuristicScorer struct{}

func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{}
}

func (s *HeuristicScorer) Score(ctx context.Context, req domain.ScoreRequest) (*domain.ScoreResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	answer := strings.TrimSpace(req.Answer)
	if req.QuestionType == domain.QuestionTypeMultipleChoice {
		return scoreChoice(answer, req.Options), nil
	}

	lower := strings.ToLower(answer)
	words := len(strings.Fields(answer))
	keywords := make([]string, 0, len(heuristicKeywords))
	for _, kw := range heuristicKeywords {
		if strings.Contains(lower, kw) {
			keywords = append(keywords, kw)
		}
	}

	var score float64
	switch {
	case words == 0:
		score = 0
	case words < 10:
		score = 1
	case words < 30:
		score = 2
	case words < 80:
		score = 3
	default:
		score = 4
	}
	if words > 0 && len(keywords) >= 2 {
		score++
	}

	seed := digest(req.QuestionText + "\x00" + answer)
	res := &domain.ScoreResult{
		Score:    score,
		Keywords: keywords,
	}
	if score >= 3 {
		res.Strengths = pick(heuristicStrengths, seed, 2)
		res.Weaknesses = pick(heuristicWeaknesses, seed, 1)
	} else {
		res.Strengths = pick(heuristicStrengths, seed, 1)
		res.Weaknesses = pick(heuristicWeaknesses, seed, 2)
	}
	if words == 0 {
		res.Strengths = nil
	}
	res.Notes = fmt.Sprintf("Response scored %.0f/5 (%d words, %d keywords).", score, words, len(keywords))
	return normalize(res), nil
}

func scoreChoice(selected string, options []string) *domain.ScoreResult {
	if !slices.Contains(options, selected) {
		return normalize(&domain.ScoreResult{
			Score:      0,
			Weaknesses: []string{"Selected option is not one of the offered choices"},
			Notes:      "Invalid selection.",
		})
	}
	return normalize(&domain.ScoreResult{
		Score:     3,
		Strengths: []string{"Answered the multiple choice question"},
		Notes:     fmt.Sprintf("Selected %q.", selected),
	})
}

func digest(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

// pick returns n distinct entries of list starting at a seed-derived offset.
func pick(list []string, seed uint32, n int) []string {
	if n > len(list) {
		n = len(list)
	}
	out := make([]string, 0, n)
	start := int(seed % uint32(len(list)))
	for i := 0; i < n; i++ {
		out = append(out, list[(start+i)%len(list)])
	}
	return out
}
