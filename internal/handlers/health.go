package handlers

import (
	"net/http"

	"github.com/bobmcallan/anvil/internal/common"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger *common.Logger
	tools  int
}

// NewHealthHandler creates a health handler that reports the served tool count.
func NewHealthHandler(logger *common.Logger, tools int) *HealthHandler {
	return &HealthHandler{logger: logger, tools: tools}
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"tools":  h.tools,
	})
}
