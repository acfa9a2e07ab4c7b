// Package handler contains HTTP handlers for the OpenScope API.
//
// This file implements tracked issues: bookmarks for GitHub issues a user is
// following. Plain CRUD over the repository layer.
package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/0xarg/openscope/internal/auth"
	"github.com/0xarg/openscope/internal/domain"
	"github.com/0xarg/openscope/internal/repository"
	"github.com/google/uuid"
)

// TrackedIssueHandler handles tracked-issue HTTP requests.
type TrackedIssueHandler struct {
	queries *repository.Queries
	logger  *slog.Logger
}

// NewTrackedIssueHandler creates a new TrackedIssueHandler.
func NewTrackedIssueHandler(queries *repository.Queries, logger *slog.Logger) *TrackedIssueHandler {
	return &TrackedIssueHandler{
		queries: queries,
		logger:  logger,
	}
}

// RegisterRoutes registers tracked-issue routes with the provided mux.
func (h *TrackedIssueHandler) RegisterRoutes(mux *http.ServeMux, requireUser func(http.Handler) http.Handler) {
	mux.Handle("POST /api/tracked-issues", requireUser(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/tracked-issues", requireUser(http.HandlerFunc(h.List)))
	mux.Handle("DELETE /api/tracked-issues/{id}", requireUser(http.HandlerFunc(h.Delete)))
}

type trackIssueRequest struct {
	Owner       string `json:"owner"`
	Repo        string `json:"repo"`
	IssueNumber int    `json:"issueNumber"`
	Title       string `json:"title"`
	URL         string `json:"url"`
}

// Create bookmarks an issue. Tracking the same issue twice updates the
// stored title and URL instead of failing.
func (h *TrackedIssueHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	var req trackIssueRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	const op = "tracked.create"
	if strings.TrimSpace(req.Owner) == "" || strings.TrimSpace(req.Repo) == "" {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "owner and repo are required"))
		return
	}
	if req.IssueNumber < 1 {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "issueNumber must be a positive integer"))
		return
	}

	tracked := &repository.TrackedIssue{
		UserID:      user.ID,
		Owner:       req.Owner,
		Repo:        req.Repo,
		IssueNumber: req.IssueNumber,
		Title:       req.Title,
		URL:         req.URL,
	}
	if err := h.queries.CreateTrackedIssue(r.Context(), tracked); err != nil {
		ErrorResponse(w, r, h.logger, domain.Internal(err, op, "failed to track issue"))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"trackedIssue": tracked})
}

// List returns the user's tracked issues, newest first.
func (h *TrackedIssueHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	issues, err := h.queries.ListTrackedIssues(r.Context(), user.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Internal(err, "tracked.list", "failed to list tracked issues"))
		return
	}
	if issues == nil {
		issues = []repository.TrackedIssue{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"trackedIssues": issues})
}

// Delete removes a bookmark. Only the owner can remove it.
func (h *TrackedIssueHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	const op = "tracked.delete"
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "id must be a valid UUID"))
		return
	}

	if err := h.queries.DeleteTrackedIssue(r.Context(), id, user.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			ErrorResponse(w, r, h.logger, domain.NotFound(op, "tracked issue", id.String()))
			return
		}
		ErrorResponse(w, r, h.logger, domain.Internal(err, op, "failed to delete tracked issue"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
