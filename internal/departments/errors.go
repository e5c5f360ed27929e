package departments

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/steward/pkg/query"
)

// Domain errors for department operations.
var (
	ErrNotFound  = errors.New("department not found")
	ErrDuplicate = errors.New("department name already exists")
	ErrInUse     = errors.New("department is referenced by users, teams, or projects")
)

// MapHTTPStatus maps department domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrInUse) {
		return http.StatusConflict
	}
	if errors.Is(err, query.ErrUnknownField) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
