package teams

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/steward/pkg/query"
)

// Domain errors for team operations.
var (
	ErrNotFound         = errors.New("team not found")
	ErrDuplicate        = errors.New("team name already exists")
	ErrInvalidReference = errors.New("department, lead, or user does not exist")
	ErrNotMember        = errors.New("user is not a member of the team")
	ErrInUse            = errors.New("team is referenced by projects")
)

// MapHTTPStatus maps team domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNotMember):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrInUse):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidReference), errors.Is(err, query.ErrUnknownField):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
