package auth

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/steward/internal/users"
)

// Domain errors for authentication.
var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// MapHTTPStatus maps authentication errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrMissingToken),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, users.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, users.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
