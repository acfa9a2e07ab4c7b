// Package handler contains HTTP handlers for the OpenScope API.
//
// This file implements the read-only GitHub browse surface: search
// contribution-friendly issues, fetch a repository, fetch an issue. Each
// request is a single proxied call; no pagination loops, no caching.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/0xarg/openscope/internal/domain"
	"github.com/0xarg/openscope/internal/github"
)

// GitHubHandler handles GitHub browse HTTP requests.
type GitHubHandler struct {
	client *github.Client
	logger *slog.Logger
}

// NewGitHubHandler creates a new GitHubHandler.
func NewGitHubHandler(client *github.Client, logger *slog.Logger) *GitHubHandler {
	return &GitHubHandler{
		client: client,
		logger: logger,
	}
}

// RegisterRoutes registers GitHub browse routes with the provided mux.
func (h *GitHubHandler) RegisterRoutes(mux *http.ServeMux, requireUser func(http.Handler) http.Handler) {
	mux.Handle("GET /api/github/issues", requireUser(http.HandlerFunc(h.SearchIssues)))
	mux.Handle("GET /api/github/repos/{owner}/{repo}", requireUser(http.HandlerFunc(h.GetRepository)))
	mux.Handle("GET /api/github/repos/{owner}/{repo}/issues/{number}", requireUser(http.HandlerFunc(h.GetIssue)))
}

// SearchIssues proxies an issue search. With no query it returns open
// good-first-issue candidates.
func (h *GitHubHandler) SearchIssues(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	perPage := parseIntParam(r, "per_page")

	issues, err := h.client.SearchIssues(r.Context(), query, perPage)
	if err != nil {
		ErrorResponse(w, r, h.logger, mapGitHubError(err, "github.search_issues"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"issues": issues})
}

// GetRepository fetches one repository.
func (h *GitHubHandler) GetRepository(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("owner")
	repo := r.PathValue("repo")
	if owner == "" || repo == "" {
		ErrorResponse(w, r, h.logger, domain.Invalid("", "owner and repo are required"))
		return
	}

	repository, err := h.client.GetRepository(r.Context(), owner, repo)
	if err != nil {
		ErrorResponse(w, r, h.logger, mapGitHubError(err, "github.get_repository"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"repository": repository})
}

// GetIssue fetches one issue.
func (h *GitHubHandler) GetIssue(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("owner")
	repo := r.PathValue("repo")
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil || number < 1 {
		ErrorResponse(w, r, h.logger, domain.Invalid("", "issue number must be a positive integer"))
		return
	}

	issue, err := h.client.GetIssue(r.Context(), owner, repo, number)
	if err != nil {
		ErrorResponse(w, r, h.logger, mapGitHubError(err, "github.get_issue"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"issue": issue})
}

// mapGitHubError translates client sentinels into domain errors so the
// central status mapping applies.
func mapGitHubError(err error, op string) error {
	switch {
	case errors.Is(err, github.ENotFound):
		return domain.Errorf(domain.ENOTFOUND, op, "GitHub resource not found")
	case errors.Is(err, github.ERateLimited):
		return domain.Errorf(domain.ERATELIMIT, op, "GitHub rate limit exceeded. Please try again later.")
	default:
		return domain.Internal(err, op, "GitHub request failed")
	}
}
