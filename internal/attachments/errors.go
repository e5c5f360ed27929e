package attachments

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/storage"
)

// Domain errors for attachment operations.
var (
	ErrNotFound            = errors.New("attachment not found")
	ErrDuplicate           = errors.New("attachment already exists")
	ErrResourceNotFound    = errors.New("attached resource not found")
	ErrInvalidResourceType = errors.New("resource_type must be project, task, or ticket")
	ErrFileTooLarge        = errors.New("file exceeds maximum upload size")
	ErrInvalidFile         = errors.New("invalid file")
	ErrForbidden           = errors.New("only the uploader or an administrator may delete an attachment")
)

// MapHTTPStatus maps attachment domain errors to HTTP status codes, deferring
// to the storage mapping for blob errors that surface unwrapped.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidFile),
		errors.Is(err, ErrInvalidResourceType),
		errors.Is(err, query.ErrUnknownField):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	}
	return storage.MapHTTPStatus(err)
}
