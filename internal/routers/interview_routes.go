package routers

import (
	"github.com/go-chi/chi/v5"

	"interview-alchemist/internal/handlers"
	"interview-alchemist/internal/middleware"
	"interview-alchemist/internal/models"
)

func InterviewRoutes(router *chi.Mux, secret string, interviewHandler *handlers.InterviewHandler, feedbackHandler *handlers.FeedbackHandler) {
	router.Route("/api/v1/interviews", func(r chi.Router) {
		r.Use(middleware.Authenticate(secret))

		r.With(middleware.ValidateRequest[*models.CreateInterviewRequest]()).Post("/", interviewHandler.Create)
		r.Get("/", interviewHandler.List)
		r.Get("/stats", interviewHandler.Stats)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", interviewHandler.Get)
			r.Delete("/", interviewHandler.Delete)
			r.Get("/result", interviewHandler.Result)
			r.With(middleware.ValidateRequest[*models.SubmitAnswerRequest]()).Post("/answers", interviewHandler.SubmitAnswer)
			r.With(middleware.ValidateRequest[*models.SubmitFeedbackRequest]()).Post("/questions/{questionId}/feedback", feedbackHandler.SubmitFeedback)
		})
	})
}

func AdminRoutes(router *chi.Mux, secret string, interviewHandler *handlers.InterviewHandler, feedbackHandler *handlers.FeedbackHandler) {
	router.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.Authenticate(secret))
		r.Use(middleware.RequireAdmin)

		r.Get("/interviews", interviewHandler.AdminList)
		r.Get("/feedback/stats", feedbackHandler.GetFeedbackStats)
		r.Get("/feedback/export", feedbackHandler.ExportFeedback)
	})
}

func CatalogRoutes(router *chi.Mux, catalogHandler *handlers.CatalogHandler) {
	router.Get("/api/v1/catalog", catalogHandler.Get)
}
