package tasks

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/steward/pkg/query"
)

// Domain errors for task operations.
var (
	ErrNotFound         = errors.New("task not found")
	ErrProjectNotFound  = errors.New("project not found")
	ErrDuplicate        = errors.New("task already exists")
	ErrInvalidDates     = errors.New("due_date must not be before start_date")
	ErrInvalidReference = errors.New("project or assignee does not exist")
	ErrSelfDependency   = errors.New("a task cannot depend on itself")
	ErrCrossProject     = errors.New("dependent tasks must belong to the same project")
	ErrCycle            = errors.New("dependency would create a cycle")
	ErrDependencyAbsent = errors.New("dependency not found")
)

// MapHTTPStatus maps task domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrProjectNotFound),
		errors.Is(err, ErrDependencyAbsent):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrCycle):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidDates),
		errors.Is(err, ErrInvalidReference),
		errors.Is(err, ErrSelfDependency),
		errors.Is(err, ErrCrossProject),
		errors.Is(err, query.ErrUnknownField):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
