package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"interview-alchemist/internal/interview"
	"interview-alchemist/internal/middleware"
	"interview-alchemist/internal/models"
	"interview-alchemist/internal/repositories"
	"interview-alchemist/internal/utils"
)

const dateLayout = "2006-01-02"

type InterviewHandler struct {
	controller *interview.Controller
	logger     *zap.Logger
}

func NewInterviewHandler(controller *interview.Controller, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{controller: controller, logger: logger}
}

// callerFrom maps the authenticated identity onto the controller's caller
func callerFrom(r *http.Request) interview.Caller {
	id, _ := middleware.IdentityFromContext(r.Context())
	return interview.Caller{UserID: id.UserID, Admin: id.IsAdmin()}
}

func (h *InterviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.CreateInterviewRequest](r)

	iv, err := h.controller.Create(r.Context(), callerFrom(r), req)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusCreated, models.CreatedResponse{Created: true, ID: iv.ID.Hex()})
}

func (h *InterviewHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

// AdminList is List across every user
func (h *InterviewHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *InterviewHandler) list(w http.ResponseWriter, r *http.Request, allUsers bool) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 {
			utils.WriteError(w, h.logger, models.ValidationError("page must be a positive integer"))
			return
		}
		page = p
	}

	resp, err := h.controller.List(r.Context(), callerFrom(r), interview.ListQuery{
		Fields:   repositories.FiltersFromQuery(r.URL.Query()),
		Page:     page,
		AllUsers: allUsers,
	})
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

func (h *InterviewHandler) Stats(w http.ResponseWriter, r *http.Request) {
	start, err := parseDate(r.URL.Query().Get("start"))
	if err != nil {
		utils.WriteError(w, h.logger, models.ValidationError("start must be a YYYY-MM-DD date"))
		return
	}
	end, err := parseDate(r.URL.Query().Get("end"))
	if err != nil {
		utils.WriteError(w, h.logger, models.ValidationError("end must be a YYYY-MM-DD date"))
		return
	}

	stats, err := h.controller.Stats(r.Context(), callerFrom(r), start, end)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.StatsResponse{Data: *stats})
}

func (h *InterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	iv, err := h.controller.Get(r.Context(), callerFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.InterviewResponse{Interview: iv, ResumeIndex: iv.FirstIncompleteIndex()})
}

func (h *InterviewHandler) Result(w http.ResponseWriter, r *http.Request) {
	sum, err := h.controller.Result(r.Context(), callerFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.ResultResponse{Result: *sum})
}

func (h *InterviewHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.SubmitAnswerRequest](r)
	// the path identifies the session, whatever the body says
	req.SessionID = chi.URLParam(r, "id")

	if err := h.controller.SubmitAnswer(r.Context(), callerFrom(r), req); err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.UpdatedResponse{Updated: true})
}

func (h *InterviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Delete(r.Context(), callerFrom(r), chi.URLParam(r, "id")); err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.DeletedResponse{Deleted: true})
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, raw)
}
