package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rahulpattadi/toppers/internal/bank"
	"github.com/rahulpattadi/toppers/internal/config"
	"github.com/rahulpattadi/toppers/internal/store"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	repo    store.Repository
	catalog *bank.Catalog
	cfg     *config.Config
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(repo store.Repository, catalog *bank.Catalog, cfg *config.Config) *HealthHandler {
	return &HealthHandler{repo: repo, catalog: catalog, cfg: cfg}
}

// Health returns the health status of the API and its dependencies. A
// catalog still loading is reported but does not degrade the status.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	healthCheckTimeout := 5 * time.Second
	if h.cfg != nil {
		healthCheckTimeout = h.cfg.Timeout.HealthCheck
	}
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	checks := map[string]string{"api": "ok"}
	status := map[string]interface{}{
		"status": "healthy",
		"checks": checks,
	}
	statusCode := http.StatusOK

	if err := h.repo.Ping(ctx); err != nil {
		slog.Error("Health check failed", "error", err)
		status["status"] = "degraded"
		checks["database"] = "unreachable"
		statusCode = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	if h.catalog.IsReady() {
		checks["questions"] = "ok"
	} else {
		checks["questions"] = "loading"
	}

	JSON(w, statusCode, status)
}

// RegisterHealth registers the health check route.
func (h *HealthHandler) RegisterHealth(r chi.Router) {
	r.Get("/health", h.Health)
}
