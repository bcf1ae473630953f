package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type ContentType string

const (
	ContentPitchDeck        ContentType = "pitchDeck"
	ContentBusinessPlan     ContentType = "businessPlan"
	ContentExecutiveSummary ContentType = "executiveSummary"
)

type Request struct {
	Content     string      `json:"content"`
	ContentType ContentType `json:"content_type"`
}

// Result is the structured analysis record. The fallback generator produces
// the same shape as the external service, so callers never branch on the
// source beyond display.
type Result struct {
	ClarityScore        int            `json:"clarity_score"`
	PersuasivenessScore int            `json:"persuasiveness_score"`
	CompletenessScore   int            `json:"completeness_score"`
	Suggestions         []string       `json:"suggestions"`
	Benchmarks          map[string]int `json:"benchmarks"`
	Source              string         `json:"source"`
}

// LLM is the external analysis collaborator.
type LLM interface {
	Analyze(ctx context.Context, req Request) (*Result, error)
}

const DefaultModel = "claude-sonnet-4-5-20250929"

const systemPrompt = `You are an analyst reviewing startup fundraising material.
Score the given content 0-100 on clarity, persuasiveness and completeness,
suggest up to five concrete improvements, and benchmark each score against a
typical seed-stage deck. Respond with a single JSON object:
{"clarity_score": int, "persuasiveness_score": int, "completeness_score": int,
"suggestions": [string], "benchmarks": {"clarity": int, "persuasiveness": int, "completeness": int}}`

type AnthropicAnalyzer struct {
	client anthropic.Client
	model  string
}

func NewAnthropicAnalyzer(apiKey, model string) *AnthropicAnalyzer {
	if model == "" {
		model = DefaultModel
	}
	return &AnthropicAnalyzer{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (a *AnthropicAnalyzer) Analyze(ctx context.Context, req Request) (*Result, error) {
	userPrompt := fmt.Sprintf("Content type: %s\n\n%s", req.ContentType, req.Content)

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return parseResult(block.Text)
		}
	}
	return nil, fmt.Errorf("no text content in response")
}

func parseResult(text string) (*Result, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var r Result
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &r); err != nil {
		return nil, fmt.Errorf("parse analysis response: %w", err)
	}
	r.ClarityScore = clampScore(r.ClarityScore)
	r.PersuasivenessScore = clampScore(r.PersuasivenessScore)
	r.CompletenessScore = clampScore(r.CompletenessScore)
	r.Source = "llm"
	return &r, nil
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Service wraps the external collaborator with the deterministic local
// fallback. Analyze never returns an error for content the fallback can
// handle — unavailability of the external service degrades, it does not
// block.
type Service struct {
	llm    LLM
	logger *slog.Logger
}

func NewService(llm LLM, logger *slog.Logger) *Service {
	return &Service{llm: llm, logger: logger}
}

func (s *Service) Analyze(ctx context.Context, req Request) (*Result, error) {
	if req.Content == "" {
		return nil, fmt.Errorf("content required")
	}
	if s.llm != nil {
		result, err := s.llm.Analyze(ctx, req)
		if err == nil {
			return result, nil
		}
		s.logger.Warn("content analysis service unavailable, using fallback", "error", err)
	}
	return Fallback(req), nil
}
