// Package service contains the business logic layer.
//
// Services orchestrate interactions between repositories, external APIs,
// and domain logic. They are responsible for:
// - Input validation
// - Business rule enforcement
// - Transaction coordination
// - Error translation (database errors -> domain errors)
package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/0xarg/openscope/internal/domain"
	"github.com/0xarg/openscope/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// =============================================================================
// Configuration Constants
// =============================================================================

const (
	// BcryptCost is the cost factor for bcrypt password hashing.
	// Cost 12 provides good security (~250ms on modern hardware) while being
	// fast enough for login flows.
	BcryptCost = 12

	// SessionTokenBytes is the number of random bytes for session tokens.
	// 32 bytes = 256 bits of entropy; hex-encoded to 64 characters.
	SessionTokenBytes = 32

	// SessionDuration is how long a session remains valid.
	SessionDuration = 7 * 24 * time.Hour

	// MinPasswordLength is the minimum password length.
	MinPasswordLength = 8

	// MaxPasswordLength prevents DoS via bcrypt on very long passwords.
	// bcrypt has a 72-byte limit anyway, but we cap earlier for clarity.
	MaxPasswordLength = 72

	// MaxSkills caps the profile skill list.
	MaxSkills = 30
)

// =============================================================================
// Interface Definition
// =============================================================================

// UserService defines the interface for user-related operations.
type UserService interface {
	// Register creates a new user account along with its zeroed usage
	// ledger. Returns domain.ECONFLICT if email already exists and
	// domain.EINVALID for validation errors.
	Register(ctx context.Context, params domain.RegisterParams) (*domain.User, error)

	// Login authenticates a user and creates a new session.
	// Returns the user and raw session token on success.
	// Returns domain.EUNAUTHORIZED for invalid credentials.
	Login(ctx context.Context, email, password string) (*domain.LoginResult, error)

	// Logout invalidates a session by its raw token.
	// This is idempotent - calling with an invalid token is not an error.
	Logout(ctx context.Context, token string) error

	// GetByID retrieves a user by their ID.
	// Returns domain.ENOTFOUND if user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetBySessionToken retrieves a user by their session token.
	// Returns domain.EUNAUTHORIZED if token is invalid or expired.
	GetBySessionToken(ctx context.Context, token string) (*domain.User, error)

	// UpdateProfile updates name, bio and skills.
	// Returns domain.ENOTFOUND if user does not exist.
	UpdateProfile(ctx context.Context, params domain.ProfileUpdateParams) error

	// DeleteExpiredSessions removes all expired sessions from the database.
	DeleteExpiredSessions(ctx context.Context) error
}

// =============================================================================
// Implementation
// =============================================================================

type userService struct {
	db      *sql.DB
	queries *repository.Queries
	logger  *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, queries *repository.Queries, logger *slog.Logger) UserService {
	return &userService{
		db:      db,
		queries: queries,
		logger:  logger,
	}
}

// Register creates a new user account with a zeroed usage ledger.
func (s *userService) Register(ctx context.Context, params domain.RegisterParams) (*domain.User, error) {
	const op = "user.register"

	email := strings.ToLower(strings.TrimSpace(params.Email))
	if err := validateEmail(op, email); err != nil {
		return nil, err
	}
	if err := validatePassword(op, params.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), BcryptCost)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to hash password")
	}

	// User row and ledger row are created together: every account has a
	// ledger from the moment it exists.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to begin transaction")
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	user, err := qtx.CreateUser(ctx, email, string(hash), strings.TrimSpace(params.Name))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflict(op, "An account with this email already exists")
		}
		return nil, domain.Internal(err, op, "failed to create user")
	}

	if err := qtx.CreateUsageLedger(ctx, user.ID, time.Now()); err != nil {
		return nil, domain.Internal(err, op, "failed to create usage ledger")
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.Internal(err, op, "failed to commit registration")
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login authenticates a user and creates a new session.
func (s *userService) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	const op = "user.login"

	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Burn a bcrypt comparison so missing and wrong-password
			// responses take comparable time.
			_ = bcrypt.CompareHashAndPassword([]byte("$2a$12$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva"), []byte(password))
			return nil, domain.Unauthorized(op, "Invalid email or password")
		}
		return nil, domain.Internal(err, op, "failed to load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.Unauthorized(op, "Invalid email or password")
	}

	token, tokenHash, err := newSessionToken()
	if err != nil {
		return nil, domain.Internal(err, op, "failed to generate session token")
	}

	_, err = s.queries.CreateSession(ctx, user.ID, tokenHash, time.Now().Add(SessionDuration))
	if err != nil {
		return nil, domain.Internal(err, op, "failed to create session")
	}

	return &domain.LoginResult{User: user, Token: token}, nil
}

// Logout invalidates a session by its raw token. Idempotent.
func (s *userService) Logout(ctx context.Context, token string) error {
	const op = "user.logout"

	if err := s.queries.DeleteSessionByTokenHash(ctx, hashToken(token)); err != nil {
		return domain.Internal(err, op, "failed to delete session")
	}
	return nil
}

// GetByID retrieves a user by their ID.
func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const op = "user.get_by_id"

	user, err := s.queries.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "user", id.String())
		}
		return nil, domain.Internal(err, op, "failed to load user")
	}
	return user, nil
}

// GetBySessionToken validates a session token and returns the associated user.
func (s *userService) GetBySessionToken(ctx context.Context, token string) (*domain.User, error) {
	const op = "user.get_by_session"

	session, err := s.queries.GetSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Unauthorized(op, "Invalid or expired session")
		}
		return nil, domain.Internal(err, op, "failed to load session")
	}

	if session.IsExpired() {
		_ = s.queries.DeleteSessionByTokenHash(ctx, session.TokenHash)
		return nil, domain.Unauthorized(op, "Invalid or expired session")
	}

	user, err := s.queries.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load user for session")
	}
	return user, nil
}

// UpdateProfile updates name, bio and skills.
func (s *userService) UpdateProfile(ctx context.Context, params domain.ProfileUpdateParams) error {
	const op = "user.update_profile"

	skills := normalizeSkills(params.Skills)
	if len(skills) > MaxSkills {
		return domain.Invalid(op, "too many skills")
	}

	err := s.queries.UpdateUserProfile(ctx, params.UserID, strings.TrimSpace(params.Name), strings.TrimSpace(params.Bio), skills)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound(op, "user", params.UserID.String())
		}
		return domain.Internal(err, op, "failed to update profile")
	}
	return nil
}

// DeleteExpiredSessions removes all expired sessions.
func (s *userService) DeleteExpiredSessions(ctx context.Context) error {
	const op = "user.delete_expired_sessions"

	if err := s.queries.DeleteExpiredSessions(ctx); err != nil {
		return domain.Internal(err, op, "failed to delete expired sessions")
	}
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

func newSessionToken() (token, tokenHash string, err error) {
	buf := make([]byte, SessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(buf)
	return token, hashToken(token), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func validateEmail(op, email string) error {
	if email == "" {
		return domain.Invalid(op, "Email is required")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || !strings.Contains(email[at:], ".") {
		return domain.Invalid(op, "Email address is not valid")
	}
	return nil
}

func validatePassword(op, password string) error {
	if len(password) < MinPasswordLength {
		return domain.Invalid(op, "Password must be at least 8 characters")
	}
	if len(password) > MaxPasswordLength {
		return domain.Invalid(op, "Password is too long")
	}
	return nil
}

func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]bool)
	for _, skill := range skills {
		trimmed := strings.TrimSpace(skill)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, trimmed)
	}
	return out
}

// isUniqueViolation detects a Postgres unique constraint error without
// depending on driver-specific error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
