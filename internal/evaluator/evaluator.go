package evaluator

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
	MaxTokens   = 500
	Temperature = 0.8
	promptMode  = "evaluation"
)

var (
	// ErrEmptyEvaluation means the model returned no content at all
	ErrEmptyEvaluation = errors.New("model returned an empty evaluation")
	// ErrMalformedResponse means none of the expected fields could be read
	ErrMalformedResponse = errors.New("evaluation response has no recognisable fields")
)

// MalformedResponseError keeps the raw model output for diagnosis
type MalformedResponseError struct {
	Raw string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: %q", ErrMalformedResponse.Error(), truncate(e.Raw, 200))
}

func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// Evaluation is a parsed grade plus the exchange that produced it
type Evaluation struct {
	Result       models.Result
	Prompt       string
	RawResponse  string
	Provider     string
	ModelVersion string
}

type Evaluator struct {
	provider llm.Provider
	prompts  prompts.PromptProvider
	logger   *zap.Logger
}

func New(provider llm.Provider, promptManager prompts.PromptProvider, logger *zap.Logger) *Evaluator {
	return &Evaluator{provider: provider, prompts: promptManager, logger: logger}
}

// Evaluate grades one answer with a single model call
func (e *Evaluator) Evaluate(ctx context.Context, requestID, question, answer string) (*Evaluation, error) {
	prompt, err := e.prompts.BuildPrompt(promptMode, prompts.DefaultVariant, map[string]string{
		"Question": question,
		"Answer":   answer,
	})
	if err != nil {
		return nil, fmt.Errorf("build evaluation prompt: %w", err)
	}

	start := time.Now()
	resp, err := e.provider.GenerateContent(ctx, &models.GenerationRequest{
		RequestID:    requestID,
		Operation:    promptMode,
		SystemPrompt: prompt.System,
		Prompt:       prompt.User,
		MaxTokens:    MaxTokens,
		Temperature:  Temperature,
	})
	metrics.ObserveLLMCall(e.provider.GetProviderName(), promptMode, start, err)
	if err != nil {
		return nil, fmt.Errorf("evaluate answer: %w", err)
	}

	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return nil, ErrEmptyEvaluation
	}

	result, found := Parse(content)
	if found == 0 {
		e.logger.Warn("evaluation response unparseable",
			zap.String("request_id", requestID),
			zap.String("provider", resp.Metadata.Provider),
			zap.Int("length", len(content)))
		return nil, &MalformedResponseError{Raw: content}
	}

	return &Evaluation{
		Result:       result,
		Prompt:       prompt.User,
		RawResponse:  content,
		Provider:     e.provider.GetProviderName(),
		ModelVersion: resp.Metadata.Model,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
