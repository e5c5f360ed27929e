package tickets

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/validation"
)

// Domain errors for ticket operations.
var (
	ErrNotFound      = errors.New("ticket not found")
	ErrDuplicate     = errors.New("ticket already exists")
	ErrItemNotFound  = errors.New("catalog item not found")
	ErrItemInactive  = errors.New("catalog item is not accepting requests")
	ErrNotPending    = errors.New("ticket is no longer pending")
	ErrNotApprover   = errors.New("only the current approver may decide this step")
	ErrNotRequester  = errors.New("only the requester may cancel this ticket")
	ErrAlreadyActed  = errors.New("step has already been decided")
	ErrInvalidAction = errors.New("unknown decision")
)

// MapHTTPStatus maps ticket domain errors to appropriate HTTP status codes.
// Form data failures surface as *validation.Error and map to 400.
func MapHTTPStatus(err error) int {
	var verr *validation.Error

	switch {
	case errors.As(err, &verr),
		errors.Is(err, ErrInvalidAction),
		errors.Is(err, query.ErrUnknownField):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotApprover), errors.Is(err, ErrNotRequester):
		return http.StatusForbidden
	case errors.Is(err, ErrItemInactive),
		errors.Is(err, ErrNotPending),
		errors.Is(err, ErrAlreadyActed),
		errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
