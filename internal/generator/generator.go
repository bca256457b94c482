package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"interview-alchemist/internal/llm"
	"interview-alchemist/internal/metrics"
	"interview-alchemist/internal/models"
	"interview-alchemist/internal/prompts"
)

const (
	// TokensPerQuestion is the output budget granted per requested question
	TokensPerQuestion = 500
	Temperature       = 0.8
	promptMode        = "questions"
)

// ErrEmptyGeneration means the model answered but produced no usable question
var ErrEmptyGeneration = errors.New("model returned no questions")

type Params struct {
	Industry        string
	Topic           string
	Type            string
	Role            string
	Difficulty      string
	Count           int
	DurationMinutes int
}

type Generator struct {
	provider llm.Provider
	prompts  prompts.PromptProvider
	logger   *zap.Logger
}

func New(provider llm.Provider, promptManager prompts.PromptProvider, logger *zap.Logger) *Generator {
	return &Generator{provider: provider, prompts: promptManager, logger: logger}
}

// Generate asks the model for p.Count questions and returns them in model order
func (g *Generator) Generate(ctx context.Context, requestID string, p Params) ([]string, error) {
	if p.Count <= 0 {
		return nil, fmt.Errorf("question count must be positive, got %d", p.Count)
	}

	prompt, err := g.prompts.BuildPrompt(promptMode, prompts.DefaultVariant, map[string]interface{}{
		"Count":      p.Count,
		"Difficulty": p.Difficulty,
		"Type":       p.Type,
		"Topic":      p.Topic,
		"Industry":   p.Industry,
		"Role":       p.Role,
		"Duration":   p.DurationMinutes,
	})
	if err != nil {
		return nil, fmt.Errorf("build question prompt: %w", err)
	}

	start := time.Now()
	resp, err := g.provider.GenerateContent(ctx, &models.GenerationRequest{
		RequestID:    requestID,
		Operation:    promptMode,
		SystemPrompt: prompt.System,
		Prompt:       prompt.User,
		MaxTokens:    TokensPerQuestion * p.Count,
		Temperature:  Temperature,
	})
	metrics.ObserveLLMCall(g.provider.GetProviderName(), promptMode, start, err)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	questions := ParseQuestions(resp.Content, p.Count)
	if len(questions) == 0 {
		g.logger.Warn("model returned no usable questions",
			zap.String("request_id", requestID),
			zap.String("provider", g.provider.GetProviderName()))
		return nil, ErrEmptyGeneration
	}
	if len(questions) < p.Count {
		g.logger.Info("model returned fewer questions than requested",
			zap.String("request_id", requestID),
			zap.Int("requested", p.Count),
			zap.Int("received", len(questions)))
	}
	return questions, nil
}

// ParseQuestions keeps the non-blank lines of content, at most limit of them
func ParseQuestions(content string, limit int) []string {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	questions := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		questions = append(questions, line)
		if limit > 0 && len(questions) == limit {
			break
		}
	}
	return questions
}
