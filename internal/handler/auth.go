// Package handler contains HTTP handlers for the OpenScope API.
//
// This file implements registration, login and logout.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/0xarg/openscope/internal/domain"
	"github.com/0xarg/openscope/internal/middleware"
	"github.com/0xarg/openscope/internal/service"
)

// =============================================================================
// Handler Configuration
// =============================================================================

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	userService service.UserService
	logger      *slog.Logger
	isSecure    bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService service.UserService, logger *slog.Logger, isSecure bool) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
		isSecure:    isSecure,
	}
}

// RegisterRoutes registers auth routes with the provided mux.
// Login and register carry their own per-IP rate limits.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, limiter *middleware.AuthRateLimiter) {
	mux.Handle("POST /api/auth/register", limiter.LimitRegister(http.HandlerFunc(h.Register)))
	mux.Handle("POST /api/auth/login", limiter.LimitLogin(http.HandlerFunc(h.Login)))
	mux.Handle("POST /api/auth/logout", http.HandlerFunc(h.Logout))
}

// =============================================================================
// Request / Response Types
// =============================================================================

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Bio      string   `json:"bio"`
	Skills   []string `json:"skills"`
	PlanTier string   `json:"planTier"`
}

func toUserResponse(u *domain.User) userResponse {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return userResponse{
		ID:       u.ID.String(),
		Email:    u.Email,
		Name:     u.Name,
		Bio:      u.Bio,
		Skills:   skills,
		PlanTier: string(u.PlanTier),
	}
}

// =============================================================================
// POST /api/auth/register
// =============================================================================

// Register creates a new account and logs it in immediately.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	user, err := h.userService.Register(r.Context(), domain.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	// New accounts start a session right away.
	result, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// Account exists but auto-login failed; the client can log in manually.
		h.logger.Error("auto-login after registration failed", "error", err, "user_id", user.ID)
		writeJSON(w, http.StatusCreated, map[string]interface{}{"user": toUserResponse(user)})
		return
	}

	middleware.SetSessionCookie(w, result.Token, h.isSecure)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"user": toUserResponse(result.User)})
}

// =============================================================================
// POST /api/auth/login
// =============================================================================

// Login authenticates a user and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	result, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	middleware.SetSessionCookie(w, result.Token, h.isSecure)
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": toUserResponse(result.User)})
}

// =============================================================================
// POST /api/auth/logout
// =============================================================================

// Logout invalidates the current session and clears the cookie. Idempotent.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := h.userService.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.Error("failed to delete session", "error", err)
		}
	}

	middleware.ClearSessionCookie(w, h.isSecure)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
