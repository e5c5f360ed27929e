// Package handlers provides JSON response helpers shared by domain HTTP handlers.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/principal"
	"github.com/JaimeStill/steward/pkg/validation"
)

// ErrorResponse is the body written for every failed request.
// Fields is populated for request validation failures.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// RespondJSON writes data as a JSON body with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs err and writes it as an ErrorResponse. Server errors are
// logged at error level; client errors at warn.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request rejected", "status", status, "error", err)
	}

	body := ErrorResponse{Error: err.Error()}

	var verr *validation.Error
	if errors.As(err, &verr) {
		body.Fields = verr.Fields
	}

	RespondJSON(w, status, body)
}

// Errors shared by every domain handler.
var (
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidBody     = errors.New("invalid request body")
	ErrUnauthenticated = errors.New("authentication required")
)

// PathID parses the named path value as a UUID.
func PathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}

// DecodeJSON reads the request body into v and validates its struct tags.
// Malformed bodies yield ErrInvalidBody; tag failures yield a *validation.Error.
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return validation.Struct(v)
}

// Caller returns the authenticated principal or writes 401.
func Caller(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (principal.Principal, bool) {
	p, ok := principal.From(r.Context())
	if !ok {
		RespondError(w, logger, http.StatusUnauthorized, ErrUnauthenticated)
		return principal.Principal{}, false
	}
	return p, true
}
