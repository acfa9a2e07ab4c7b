// Package handler contains HTTP handlers for the OpenScope API.
//
// This file implements the insight surface. The success envelope is
// {"success": true, "ai": {...}} where ai is one of the four result shapes.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/0xarg/openscope/internal/auth"
	"github.com/0xarg/openscope/internal/domain"
	"github.com/0xarg/openscope/internal/service"
)

// InsightHandler handles AI insight HTTP requests.
type InsightHandler struct {
	insightService service.InsightService
	logger         *slog.Logger
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(insightService service.InsightService, logger *slog.Logger) *InsightHandler {
	return &InsightHandler{
		insightService: insightService,
		logger:         logger,
	}
}

// RegisterRoutes registers insight routes with the provided mux.
func (h *InsightHandler) RegisterRoutes(mux *http.ServeMux, requireUser func(http.Handler) http.Handler) {
	mux.Handle("POST /api/insights", requireUser(http.HandlerFunc(h.Generate)))
	mux.Handle("GET /api/insights", requireUser(http.HandlerFunc(h.List)))
}

// =============================================================================
// Request / Response Types
// =============================================================================

type insightRequest struct {
	SubjectKind string               `json:"subjectKind"` // issue|repository
	Depth       string               `json:"depth"`       // basic|advanced
	SubjectRef  string               `json:"subjectRef"`  // e.g. "owner/repo#123"
	Issue       *domain.IssueSubject `json:"issue,omitempty"`
	Repo        *domain.RepoSubject  `json:"repo,omitempty"`
}

type insightRecord struct {
	ID          string          `json:"id"`
	SubjectKind string          `json:"subjectKind"`
	Depth       string          `json:"depth"`
	SubjectRef  string          `json:"subjectRef"`
	Model       string          `json:"model"`
	AI          json.RawMessage `json:"ai"`
	CreatedAt   string          `json:"createdAt"`
}

// =============================================================================
// POST /api/insights
// =============================================================================

// Generate runs the insight pipeline for the authenticated user.
func (h *InsightHandler) Generate(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	var req insightRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	payload, err := h.insightService.Generate(r.Context(), &domain.InsightRequest{
		UserID:     user.ID,
		Kind:       domain.SubjectKind(req.SubjectKind),
		Depth:      domain.InsightDepth(req.Depth),
		SubjectRef: req.SubjectRef,
		Issue:      req.Issue,
		Repo:       req.Repo,
		Profile:    user.Profile(),
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"ai":      payload,
	})
}

// =============================================================================
// GET /api/insights
// =============================================================================

// List returns the user's most recent insights.
func (h *InsightHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	insights, err := h.insightService.List(r.Context(), user.ID, parseIntParam(r, "limit"))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	records := make([]insightRecord, 0, len(insights))
	for _, in := range insights {
		records = append(records, insightRecord{
			ID:          in.ID.String(),
			SubjectKind: string(in.Kind),
			Depth:       string(in.Depth),
			SubjectRef:  in.SubjectRef,
			Model:       in.Model,
			AI:          in.Payload,
			CreatedAt:   in.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"insights": records})
}
