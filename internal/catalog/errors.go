package catalog

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/validation"
)

// Domain errors for catalog operations.
var (
	ErrNotFound         = errors.New("catalog item not found")
	ErrDuplicate        = errors.New("catalog item name already exists")
	ErrInvalidApprovers = errors.New("approvers must be unique, existing, active users")
	ErrInUse            = errors.New("catalog item has tickets")
)

// MapHTTPStatus maps catalog domain errors to appropriate HTTP status codes.
// Form definition failures surface as *validation.Error and map to 400.
func MapHTTPStatus(err error) int {
	var verr *validation.Error

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrInUse):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidApprovers), errors.Is(err, query.ErrUnknownField):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
