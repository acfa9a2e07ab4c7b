package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/0xarg/openscope/internal/domain"
	"github.com/google/uuid"
)

const createUser = `
INSERT INTO users (email, password_hash, name)
VALUES ($1, $2, $3)
RETURNING id, email, password_hash, name, bio, skills, plan_tier, created_at, updated_at
`

// CreateUser inserts a new user on the FREE tier.
func (q *Queries) CreateUser(ctx context.Context, email, passwordHash, name string) (*domain.User, error) {
	row := q.db.QueryRowContext(ctx, createUser, email, passwordHash, name)
	return scanUser(row)
}

const getUserByID = `
SELECT id, email, password_hash, name, bio, skills, plan_tier, created_at, updated_at
FROM users
WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := q.db.QueryRowContext(ctx, getUserByID, id)
	return scanUser(row)
}

const getUserByEmail = `
SELECT id, email, password_hash, name, bio, skills, plan_tier, created_at, updated_at
FROM users
WHERE email = $1
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := q.db.QueryRowContext(ctx, getUserByEmail, email)
	return scanUser(row)
}

const updateUserProfile = `
UPDATE users
SET name = $2, bio = $3, skills = $4, updated_at = now()
WHERE id = $1
`

func (q *Queries) UpdateUserProfile(ctx context.Context, id uuid.UUID, name, bio string, skills []string) error {
	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return err
	}
	result, err := q.db.ExecContext(ctx, updateUserProfile, id, name, bio, skillsJSON)
	if err != nil {
		return err
	}
	return requireRowAffected(result)
}

const getUserPlanTier = `
SELECT plan_tier FROM users WHERE id = $1
`

// GetUserPlanTier returns just the plan tier for quota checks.
func (q *Queries) GetUserPlanTier(ctx context.Context, id uuid.UUID) (domain.PlanTier, error) {
	var tier string
	if err := q.db.QueryRowContext(ctx, getUserPlanTier, id).Scan(&tier); err != nil {
		return "", err
	}
	return domain.PlanTier(tier), nil
}

// =============================================================================
// Sessions
// =============================================================================

const createSession = `
INSERT INTO sessions (user_id, token_hash, expires_at)
VALUES ($1, $2, $3)
RETURNING id, user_id, token_hash, expires_at, created_at
`

func (q *Queries) CreateSession(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*domain.Session, error) {
	var s domain.Session
	err := q.db.QueryRowContext(ctx, createSession, userID, tokenHash, expiresAt).
		Scan(&s.ID, &s.UserID, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

const getSessionByTokenHash = `
SELECT id, user_id, token_hash, expires_at, created_at
FROM sessions
WHERE token_hash = $1
`

func (q *Queries) GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	var s domain.Session
	err := q.db.QueryRowContext(ctx, getSessionByTokenHash, tokenHash).
		Scan(&s.ID, &s.UserID, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

const deleteSessionByTokenHash = `
DELETE FROM sessions WHERE token_hash = $1
`

func (q *Queries) DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error {
	_, err := q.db.ExecContext(ctx, deleteSessionByTokenHash, tokenHash)
	return err
}

const deleteExpiredSessions = `
DELETE FROM sessions WHERE expires_at < now()
`

func (q *Queries) DeleteExpiredSessions(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteExpiredSessions)
	return err
}

// =============================================================================
// Scan helpers
// =============================================================================

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var tier string
	var skillsJSON []byte
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Bio, &skillsJSON, &tier, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.PlanTier = domain.PlanTier(tier)
	if len(skillsJSON) > 0 {
		if err := json.Unmarshal(skillsJSON, &u.Skills); err != nil {
			return nil, err
		}
	}
	return &u, nil
}

func requireRowAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
