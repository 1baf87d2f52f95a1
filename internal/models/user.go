package models

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes the two sides of the platform.
type Role string

const (
	RoleEntrepreneur Role = "entrepreneur"
	RoleInvestor     Role = "investor"
)

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). Used for login.
	Email string

	// DisplayName is shown on campaigns and in investor lists.
	DisplayName string

	Role Role

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	CreatedAt int64
	UpdatedAt int64
}

// NewUser builds a user with a fresh ID and timestamps.
func NewUser(email, displayName string, role Role, passwordHash string) *User {
	now := time.Now().Unix()
	if role == "" {
		role = RoleEntrepreneur
	}
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		Role:         role,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
