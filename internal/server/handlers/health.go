package handlers

import (
	"context"
	"net/http"

	"github.com/agentstation/wordblox/internal/server/response"
	"github.com/agentstation/wordblox/pkg/constants"
)

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "wordblox-api",
		"version": "v1",
	})
}

// HandleReady handles GET /api/v1/ready. It reports 503 until the store answers.
func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.DefaultTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("Store not ready")
		response.ServiceUnavailable(w, "Store not available")
		return
	}

	response.OK(w, map[string]any{
		"status": "ready",
		"cache": map[string]any{
			"items": h.cache.ItemCount(),
		},
	})
}
