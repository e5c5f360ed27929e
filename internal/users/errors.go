package users

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/steward/pkg/query"
)

// Domain errors for user operations.
var (
	ErrNotFound           = errors.New("user not found")
	ErrDuplicate          = errors.New("email already registered")
	ErrInvalidDepartment  = errors.New("department does not exist")
	ErrInUse              = errors.New("user is referenced by other records")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrForbidden          = errors.New("cannot change another user's password")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
)

// MapHTTPStatus maps user domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrInUse):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidDepartment),
		errors.Is(err, ErrPasswordTooLong),
		errors.Is(err, query.ErrUnknownField):
		return http.StatusBadRequest
	case errors.Is(err, ErrWrongPassword), errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
