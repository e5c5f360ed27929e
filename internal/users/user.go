// Package users implements account management for Steward: profiles, roles,
// department membership, and bcrypt password credentials.
package users

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is an account. The password hash is never serialized.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	DepartmentID *uuid.UUID `json:"department_id"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateCommand carries the data needed to create an account.
// Role defaults to member when empty.
type CreateCommand struct {
	Email        string     `json:"email" validate:"required,email,max=254"`
	Name         string     `json:"name" validate:"required,max=200"`
	Password     string     `json:"password" validate:"required,min=8,maxbytes=72"`
	Role         string     `json:"role" validate:"omitempty,oneof=admin manager member"`
	DepartmentID *uuid.UUID `json:"department_id"`
}

// UpdateCommand replaces an account's profile fields.
type UpdateCommand struct {
	Email        string     `json:"email" validate:"required,email,max=254"`
	Name         string     `json:"name" validate:"required,max=200"`
	Role         string     `json:"role" validate:"required,oneof=admin manager member"`
	DepartmentID *uuid.UUID `json:"department_id"`
	Active       bool       `json:"active"`
}

// ChangePasswordCommand sets a new password. CurrentPassword is required
// when callers change their own password.
type ChangePasswordCommand struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" validate:"required,min=8,maxbytes=72"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
