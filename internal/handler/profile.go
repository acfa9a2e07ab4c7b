// Package handler contains HTTP handlers for the OpenScope API.
//
// This file implements the profile surface. Bio and skills feed the AI
// prompt builder's fit assessment.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/0xarg/openscope/internal/auth"
	"github.com/0xarg/openscope/internal/domain"
	"github.com/0xarg/openscope/internal/service"
)

// ProfileHandler handles user profile HTTP requests.
type ProfileHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(userService service.UserService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers profile routes with the provided mux.
func (h *ProfileHandler) RegisterRoutes(mux *http.ServeMux, requireUser func(http.Handler) http.Handler) {
	mux.Handle("GET /api/profile", requireUser(http.HandlerFunc(h.Show)))
	mux.Handle("PUT /api/profile", requireUser(http.HandlerFunc(h.Update)))
}

type profileUpdateRequest struct {
	Name   string   `json:"name"`
	Bio    string   `json:"bio"`
	Skills []string `json:"skills"`
}

// Show returns the authenticated user's profile.
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": toUserResponse(user)})
}

// Update replaces the user's name, bio and skills.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	var req profileUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	err := h.userService.UpdateProfile(r.Context(), domain.ProfileUpdateParams{
		UserID: user.ID,
		Name:   req.Name,
		Bio:    req.Bio,
		Skills: req.Skills,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	updated, err := h.userService.GetByID(r.Context(), user.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": toUserResponse(updated)})
}
