package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"interview-alchemist/internal/llm"
	"interview-alchemist/internal/models"

	"google.golang.org/genai"
)

func newStubClient(t *testing.T, handler http.HandlerFunc) (*Client, func()) {
	t.Helper()
	server := httptest.NewServer(handler)

	genaiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:     "test",
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: server.Client(),
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    server.URL,
			APIVersion: "v1beta",
		},
	})
	if err != nil {
		t.Fatalf("failed to create genai client: %v", err)
	}

	client := &Client{
		client: genaiClient,
		config: &Config{APIKey: "test", Model: "test-model"},
	}

	return client, server.Close
}

func textResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"parts": []map[string]any{
						{"text": text},
					},
				},
			},
		},
	}
}

func TestClientGenerateContentSuccess(t *testing.T) {
	var body string
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/test-model:generateContent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(textResponse("Question one?\nQuestion two?"))
	}

	client, cleanup := newStubClient(t, handler)
	defer cleanup()

	resp, err := client.GenerateContent(context.Background(), &models.GenerationRequest{
		RequestID:    "req-1",
		SystemPrompt: "You are an interviewer",
		Prompt:       "Generate questions",
		MaxTokens:    1000,
		Temperature:  0.8,
	})
	if err != nil {
		t.Fatalf("GenerateContent returned error: %v", err)
	}
	if resp.Content != "Question one?\nQuestion two?" {
		t.Fatalf("unexpected content %q", resp.Content)
	}
	if resp.RequestID != "req-1" || resp.Metadata.Model != "test-model" || resp.Metadata.Provider != "gemini" {
		t.Fatalf("unexpected metadata %+v", resp)
	}
	if !strings.Contains(body, "Generate questions") || !strings.Contains(body, "You are an interviewer") {
		t.Fatalf("expected prompt and system instruction in request body, got %s", body)
	}
	if !strings.Contains(body, "maxOutputTokens") {
		t.Fatalf("expected token budget in request body, got %s", body)
	}
}

func TestClientGenerateContentRateLimit(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "429 rate limit", http.StatusTooManyRequests)
	}
	client, cleanup := newStubClient(t, handler)
	defer cleanup()

	_, err := client.GenerateContent(context.Background(), &models.GenerationRequest{Prompt: "prompt"})
	if err == nil {
		t.Fatal("expected error")
	}
	var provErr *llm.ProviderError
	if !errors.As(err, &provErr) || provErr.Code != llm.ErrCodeRateLimit {
		t.Fatalf("expected provider rate limit error, got %v", err)
	}
}

func TestClientGenerateContentServerError(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}
	client, cleanup := newStubClient(t, handler)
	defer cleanup()

	_, err := client.GenerateContent(context.Background(), &models.GenerationRequest{Prompt: "prompt"})
	var provErr *llm.ProviderError
	if !errors.As(err, &provErr) || provErr.Code != llm.ErrCodeServiceDown {
		t.Fatalf("expected service unavailable error, got %v", err)
	}
}

func TestClientGenerateContentEmptyResponse(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(textResponse(""))
	}
	client, cleanup := newStubClient(t, handler)
	defer cleanup()

	_, err := client.GenerateContent(context.Background(), &models.GenerationRequest{Prompt: "prompt"})
	var provErr *llm.ProviderError
	if !errors.As(err, &provErr) || provErr.Code != llm.ErrCodeInvalidInput {
		t.Fatalf("expected invalid input error for empty response, got %v", err)
	}
}

func TestNewConfigRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	if _, err := NewConfig(); err == nil {
		t.Fatal("expected error when GEMINI_API_KEY missing")
	}

	t.Setenv("GEMINI_API_KEY", "key")
	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if cfg.Model != "gemini-2.5-flash" {
		t.Fatalf("expected default model, got %s", cfg.Model)
	}
}

func TestProviderRegistered(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key")
	provider, err := llm.NewProvider("gemini")
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}
	if provider.GetProviderName() != "gemini" {
		t.Fatalf("unexpected provider %s", provider.GetProviderName())
	}
}
