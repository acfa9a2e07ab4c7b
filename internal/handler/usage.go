package handler

import (
	"log/slog"
	"net/http"

	"github.com/0xarg/openscope/internal/auth"
	"github.com/0xarg/openscope/internal/service"
)

// UsageHandler exposes the authenticated user's AI usage against their plan.
type UsageHandler struct {
	quotaService service.QuotaService
	logger       *slog.Logger
}

// NewUsageHandler creates a new UsageHandler.
func NewUsageHandler(quotaService service.QuotaService, logger *slog.Logger) *UsageHandler {
	return &UsageHandler{
		quotaService: quotaService,
		logger:       logger,
	}
}

// RegisterRoutes registers usage routes with the provided mux.
func (h *UsageHandler) RegisterRoutes(mux *http.ServeMux, requireUser func(http.Handler) http.Handler) {
	mux.Handle("GET /api/usage", requireUser(http.HandlerFunc(h.Show)))
}

// Show returns current usage with pending resets applied virtually.
func (h *UsageHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	status, err := h.quotaService.Status(r.Context(), user.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"usage": status})
}
