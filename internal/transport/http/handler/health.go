package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Probe reports whether a backing service is reachable.
type Probe func(ctx context.Context) error

// HealthHandler answers liveness ("ping") and readiness ("ready") checks.
type HealthHandler struct {
	ready Probe
}

// NewHealthHandler builds the handler. A nil probe makes "ready" always succeed.
func NewHealthHandler(ready Probe) *HealthHandler { return &HealthHandler{ready: ready} }

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "ping":
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "pong"})
	case "ready":
		if h.ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
			defer cancel()
			if err := h.ready(ctx); err != nil {
				slog.WarnContext(r.Context(), "readiness probe failed", "err", err)
				writeError(w, http.StatusServiceUnavailable, "not ready")
				return
			}
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "ready"})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}
