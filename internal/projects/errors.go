package projects

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/steward/pkg/query"
)

// Domain errors for project operations.
var (
	ErrNotFound         = errors.New("project not found")
	ErrDuplicate        = errors.New("project name already exists")
	ErrInvalidDates     = errors.New("end_date must not be before start_date")
	ErrInvalidReference = errors.New("department, team, or owner does not exist")
	ErrInUse            = errors.New("project is referenced by other records")
)

// MapHTTPStatus maps project domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrInUse):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidDates),
		errors.Is(err, ErrInvalidReference),
		errors.Is(err, query.ErrUnknownField):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
