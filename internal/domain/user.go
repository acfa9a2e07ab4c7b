// Package domain contains core business types and interfaces.
//
// This file defines the User domain type and related types for authentication.
// These types are separate from the repository models so business logic never
// deals with database null types directly.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user of the OpenScope platform.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string // Never expose this in API responses
	Name         string
	Bio          string   // Optional; feeds AI fit assessment
	Skills       []string // Optional; feeds AI fit assessment
	PlanTier     PlanTier
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName returns the user's name or email if name is empty.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Profile is the subset of user data interpolated into AI prompts.
// A nil Profile degrades to "Not provided" placeholders in the prompt builder.
type Profile struct {
	Bio    string
	Skills []string
}

// Profile returns the prompt-facing view of the user.
func (u *User) Profile() *Profile {
	return &Profile{
		Bio:    u.Bio,
		Skills: u.Skills,
	}
}

// Session represents an authenticated session.
//
// Sessions are stored in the database with a hashed token.
// The raw token is only given to the client once (at login).
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string // SHA-256 hash of the session token
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// RegisterParams contains the validated parameters for user registration.
type RegisterParams struct {
	Email    string
	Password string // Raw password, will be hashed by service
	Name     string
}

// LoginResult contains the result of a successful login.
type LoginResult struct {
	User  *User
	Token string // Raw session token (not hashed) - only returned once
}

// ProfileUpdateParams contains parameters for updating a user's profile.
type ProfileUpdateParams struct {
	UserID uuid.UUID
	Name   string
	Bio    string
	Skills []string
}
