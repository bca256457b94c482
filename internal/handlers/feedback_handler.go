package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"interview-alchemist/internal/feedback"
	"interview-alchemist/internal/interview"
	"interview-alchemist/internal/middleware"
	"interview-alchemist/internal/models"
	"interview-alchemist/internal/utils"
)

const defaultExportDays = 7

type FeedbackHandler struct {
	manager    *feedback.Manager // nil when postgres is not configured
	controller *interview.Controller
	logger     *zap.Logger
}

func NewFeedbackHandler(manager *feedback.Manager, controller *interview.Controller, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{manager: manager, controller: controller, logger: logger}
}

func (h *FeedbackHandler) available(w http.ResponseWriter) bool {
	if h.manager == nil {
		utils.WriteErrorMessage(w, http.StatusServiceUnavailable, models.KindUnavailable, "Feedback collection is not enabled")
		return false
	}
	return true
}

// SubmitFeedback rates the latest evaluation of one question
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	req := middleware.GetValidatedRequest[*models.SubmitFeedbackRequest](r)
	interviewID := chi.URLParam(r, "id")
	questionID := chi.URLParam(r, "questionId")

	iv, err := h.controller.Get(r.Context(), callerFrom(r), interviewID)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	if _, ok := iv.FindQuestion(questionID); !ok {
		utils.WriteError(w, h.logger, models.NotFoundError("Question not found"))
		return
	}

	err = h.manager.SubmitFeedback(r.Context(), models.FeedbackKey(interviewID, questionID), req.IsPositive)
	if errors.Is(err, feedback.ErrContextNotFound) {
		utils.WriteError(w, h.logger, models.NotFoundError("No recent evaluation to rate for this question"))
		return
	}
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.Resp{OK: true, Info: "feedback submitted successfully"})
}

// ExportFeedback takes days (default 7), limit and format (jsonl or json)
func (h *FeedbackHandler) ExportFeedback(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	q := r.URL.Query()
	days := positiveInt(q.Get("days"), defaultExportDays)
	limit := positiveInt(q.Get("limit"), 0)
	format := q.Get("format")
	if format == "" {
		format = "jsonl"
	}
	if format != "jsonl" && format != "json" {
		utils.WriteError(w, h.logger, models.ValidationError("format must be jsonl or json"))
		return
	}

	rows, err := h.manager.GetFeedbackSince(r.Context(), time.Now().UTC().AddDate(0, 0, -days), limit)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	if len(rows) == 0 {
		utils.JSON(w, http.StatusOK, models.Resp{OK: true, Info: "no feedback to export"})
		return
	}

	if format == "json" {
		utils.JSON(w, http.StatusOK, models.Resp{OK: true, Info: rows})
		return
	}
	data, err := h.manager.ExportToJSONL(rows)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/jsonl")
	w.Header().Set("Content-Disposition", "attachment; filename=feedback_export.jsonl")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *FeedbackHandler) GetFeedbackStats(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	stats, err := h.manager.GetFeedbackStats(r.Context())
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.Resp{OK: true, Info: stats})
}

func positiveInt(raw string, fallback int) int {
	if v, err := strconv.Atoi(raw); err == nil && v > 0 {
		return v
	}
	return fallback
}
