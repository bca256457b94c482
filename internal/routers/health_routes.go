package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"interview-alchemist/internal/handlers"
	"interview-alchemist/internal/metrics"
)

func HealthRoutes(router *chi.Mux, healthHandler *handlers.HealthHandler) {
	router.Get("/healthz", healthHandler.HealthzHandler)
	router.Get("/readyz", healthHandler.ReadyzHandler)
	router.Method(http.MethodGet, "/metrics", metrics.Handler())
}
