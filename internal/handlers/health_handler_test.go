package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"text/template"

	"interview-alchemist/internal/config"
	"interview-alchemist/internal/models"
)

type mockPromptManager struct {
	templates map[string]map[string]*template.Template
}

func (m *mockPromptManager) BuildPrompt(string, string, interface{}) (*models.Prompt, error) {
	return &models.Prompt{System: "system", User: "user"}, nil
}

func (m *mockPromptManager) GetTemplates() map[string]map[string]*template.Template {
	return m.templates
}

func loadedPrompts() *mockPromptManager {
	return &mockPromptManager{templates: map[string]map[string]*template.Template{
		"questions": {"default": template.Must(template.New("t").Parse("x"))},
	}}
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func readiness(t *testing.T, h *HealthHandler) (int, ReadinessResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ReadyzHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	var resp ReadinessResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode readiness: %v", err)
	}
	return rec.Code, resp
}

func TestReadyzAllHealthy(t *testing.T) {
	h := NewHealthHandler(&mockProvider{}, loadedPrompts(), &config.Config{Provider: "gemini"}, pingFunc(func(context.Context) error { return nil }))

	code, resp := readiness(t, h)
	if code != http.StatusOK || resp.Status != "ready" || resp.Service != "interview-alchemist" {
		t.Fatalf("unexpected readiness %d %+v", code, resp)
	}
	for _, name := range []string{"provider", "prompt_manager", "configuration", "store"} {
		if resp.Checks[name].Status != "ok" {
			t.Fatalf("check %s: expected ok, got %+v", name, resp.Checks[name])
		}
	}
}

func TestReadyzFailures(t *testing.T) {
	cases := map[string]struct {
		handler *HealthHandler
		check   string
	}{
		"no provider": {NewHealthHandler(nil, loadedPrompts(), &config.Config{}, pingFunc(func(context.Context) error { return nil })), "provider"},
		"no templates": {NewHealthHandler(&mockProvider{}, &mockPromptManager{}, &config.Config{}, pingFunc(func(context.Context) error { return nil })), "prompt_manager"},
		"no config":    {NewHealthHandler(&mockProvider{}, loadedPrompts(), nil, pingFunc(func(context.Context) error { return nil })), "configuration"},
		"store down":   {NewHealthHandler(&mockProvider{}, loadedPrompts(), &config.Config{}, pingFunc(func(context.Context) error { return errors.New("no reachable servers") })), "store"},
		"no store":     {NewHealthHandler(&mockProvider{}, loadedPrompts(), &config.Config{}, nil), "store"},
	}

	for name, tc := range cases {
		code, resp := readiness(t, tc.handler)
		if code != http.StatusServiceUnavailable || resp.Status != "not_ready" {
			t.Fatalf("%s: expected not_ready, got %d %+v", name, code, resp)
		}
		if resp.Checks[tc.check].Status != "failed" || resp.Checks[tc.check].Message == "" {
			t.Fatalf("%s: expected %s to fail with a message, got %+v", name, tc.check, resp.Checks[tc.check])
		}
	}
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(nil, nil, nil, nil).HealthzHandler(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
