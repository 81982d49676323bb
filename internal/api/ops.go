package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kaya2m/BookStoreApp-API/internal/api/common"
	"github.com/kaya2m/BookStoreApp-API/internal/service"
	"github.com/kaya2m/BookStoreApp-API/internal/versions"
)

// OpsRouter serves the version-neutral operational endpoints
func OpsRouter(svc service.ReadinessService) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", healthHandler)
	r.Get("/readiness", readinessHandler(svc))
	r.Get("/version", versionHandler)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	common.Respond(w, r, HealthResponse{Status: "healthy"}, http.StatusOK)
}

func readinessHandler(svc service.ReadinessService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.CheckReadiness(r.Context()); err != nil {
			// the cause can name the database host, so it stays in the log
			slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
			common.WriteErrorResponse(w, "Service not ready", http.StatusServiceUnavailable)
			return
		}
		common.Respond(w, r, ReadinessResponse{Status: "ready"}, http.StatusOK)
	}
}

func versionHandler(w http.ResponseWriter, r *http.Request) {
	common.Respond(w, r, versions.GetVersionInfo(), http.StatusOK)
}
