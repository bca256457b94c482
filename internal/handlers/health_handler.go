package handlers

import (
	"context"
	"net/http"
	"time"

	"interview-alchemist/internal/config"
	"interview-alchemist/internal/llm"
	"interview-alchemist/internal/prompts"
	"interview-alchemist/internal/utils"
)

const (
	serviceName = "interview-alchemist"
	pingTimeout = 2 * time.Second
	checkOK     = "ok"
	checkFailed = "failed"
)

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status  string                    `json:"status"` // "ready" | "not_ready"
	Service string                    `json:"service"`
	Checks  map[string]ReadinessCheck `json:"checks"`
}

// Pinger is any dependency that can report whether it is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	provider      llm.Provider
	promptManager prompts.PromptProvider
	config        *config.Config
	store         Pinger
}

func NewHealthHandler(provider llm.Provider, promptManager prompts.PromptProvider, cfg *config.Config, store Pinger) *HealthHandler {
	return &HealthHandler{
		provider:      provider,
		promptManager: promptManager,
		config:        cfg,
		store:         store,
	}
}

func (h *HealthHandler) HealthzHandler(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": serviceName,
		"version": "1.0.0",
	})
}

func (h *HealthHandler) ReadyzHandler(w http.ResponseWriter, r *http.Request) {
	checks := map[string]ReadinessCheck{
		"provider":       h.checkProvider(),
		"prompt_manager": h.checkPrompts(),
		"configuration":  h.checkConfig(),
		"store":          h.checkStore(r.Context()),
	}

	resp := ReadinessResponse{Status: "ready", Service: serviceName, Checks: checks}
	status := http.StatusOK
	for _, c := range checks {
		if c.Status != checkOK {
			resp.Status = "not_ready"
			status = http.StatusServiceUnavailable
			break
		}
	}
	utils.JSON(w, status, resp)
}

func (h *HealthHandler) checkProvider() ReadinessCheck {
	if h.provider == nil {
		return ReadinessCheck{Status: checkFailed, Message: "AI provider not initialized"}
	}
	return ReadinessCheck{Status: checkOK}
}

func (h *HealthHandler) checkPrompts() ReadinessCheck {
	if h.promptManager == nil {
		return ReadinessCheck{Status: checkFailed, Message: "Prompt manager not initialized"}
	}
	if len(h.promptManager.GetTemplates()) == 0 {
		return ReadinessCheck{Status: checkFailed, Message: "No prompt templates loaded"}
	}
	return ReadinessCheck{Status: checkOK}
}

func (h *HealthHandler) checkConfig() ReadinessCheck {
	if h.config == nil {
		return ReadinessCheck{Status: checkFailed, Message: "Configuration not loaded"}
	}
	return ReadinessCheck{Status: checkOK}
}

func (h *HealthHandler) checkStore(ctx context.Context) ReadinessCheck {
	if h.store == nil {
		return ReadinessCheck{Status: checkFailed, Message: "Interview store not initialized"}
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		return ReadinessCheck{Status: checkFailed, Message: err.Error()}
	}
	return ReadinessCheck{Status: checkOK}
}
