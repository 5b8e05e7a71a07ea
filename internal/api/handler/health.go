package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/portcullis-auth/portcullis/internal/api/response"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	version string
	ping    func(ctx context.Context) error
}

// NewHealthHandler creates a HealthHandler. ping checks the backing store.
func NewHealthHandler(version string, ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{version: version, ping: ping}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, map[string]string{"version": h.version})
}

// Ready handles GET /ready. It fails when the backing store is unreachable.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.ping(r.Context()); err != nil {
		slog.Error("readiness check failed", "error", err)
		response.FailEmpty(w, http.StatusServiceUnavailable)
		return
	}
	response.SuccessEmpty(w, http.StatusOK)
}
