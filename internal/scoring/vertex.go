package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"go-interview-backend/internal/domain"
)

// VertexOptions configures the Gemini model used for scoring.
type VertexOptions struct {
	ProjectID string
	Location  string
	Model     string
}

// generator is the slice of the Gemini client the scorer needs.
type generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// VertexScorer scores responses with Gemini on Vertex AI.
type VertexScorer struct {
	gen    generator
	client *genai.Client
}

func NewVertexScorer(ctx context.Context, opts VertexOptions) (*VertexScorer, error) {
	if opts.ProjectID == "" {
		return nil, errors.New("vertex scorer: GOOGLE_CLOUD_PROJECT not set")
	}
	if opts.Location == "" {
		opts.Location = "us-central1"
	}
	if opts.Model == "" {
		opts.Model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, opts.ProjectID, opts.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	model := client.GenerativeModel(opts.Model)
	model.SetTemperature(0.2)
	model.SetTopK(40)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(1024)
	model.ResponseMIMEType = "application/json"

	return &VertexScorer{gen: &geminiModel{model: model}, client: client}, nil
}

func newVertexScorerWith(gen generator) *VertexScorer {
	return &VertexScorer{gen: gen}
}

func (s *VertexScorer) Score(ctx context.Context, req domain.ScoreRequest) (*domain.ScoreResult, error) {
	raw, err := s.gen.GenerateContent(ctx, buildPrompt(req))
	if err != nil {
		return nil, err
	}
	return parseScoreResult(raw)
}

func (s *VertexScorer) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

type geminiModel struct {
	model *genai.GenerativeModel
}

func (g *geminiModel) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no response candidates returned")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

const scorePromptTemplate = `You are an expert interviewer analyzing a candidate's answer.

Question type: %s
Question: %s
%sAnswer:
%s

Reply with a single JSON object and nothing else:
{"score": <number 0-5, 5 is excellent>, "strengths": [<string>], "weaknesses": [<string>], "notes": <string>, "keywords": [<string>], "sentiment": "positive"|"neutral"|"negative"}`

func buildPrompt(req domain.ScoreRequest) string {
	var opts string
	if len(req.Options) > 0 {
		opts = "Options: " + strings.Join(req.Options, " | ") + "\n"
	}
	return fmt.Sprintf(scorePromptTemplate, req.QuestionType, req.QuestionText, opts, req.Answer)
}

// parseScoreResult tolerates markdown fences around the JSON body.
func parseScoreResult(raw string) (*domain.ScoreResult, error) {
	body := strings.TrimSpace(raw)
	body = strings.TrimPrefix(body, "```json")
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimSuffix(body, "```")
	body = strings.TrimSpace(body)

	var payload struct {
		Score      *float64 `json:"score"`
		Strengths  []string `json:"strengths"`
		Weaknesses []string `json:"weaknesses"`
		Notes      string   `json:"notes"`
		Keywords   []string `json:"keywords"`
		Sentiment  string   `json:"sentiment"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, fmt.Errorf("malformed model output: %w", err)
	}
	if payload.Score == nil {
		return nil, errors.New("malformed model output: missing score")
	}

	return normalize(&domain.ScoreResult{
		Score:      *payload.Score,
		Strengths:  payload.Strengths,
		Weaknesses: payload.Weaknesses,
		Notes:      payload.Notes,
		Keywords:   payload.Keywords,
		Sentiment:  strings.ToLower(payload.Sentiment),
	}), nil
}
