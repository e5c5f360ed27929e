// Package auth implements bearer-token authentication for Steward: password
// login issuing signed tokens, the caller lookup endpoint, and the middleware
// that resolves every request's principal.
package auth

import (
	"time"

	"github.com/JaimeStill/steward/internal/users"
)

// LoginCommand carries credentials for password login.
type LoginCommand struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *users.User `json:"user"`
}
