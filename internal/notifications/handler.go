package notifications

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/steward/pkg/handlers"
	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/routes"
)

// Handler provides HTTP endpoints for the caller's notifications.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "notifications"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for notification endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/notifications",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, Summary: "List the caller's notifications"},
			{Method: "GET", Pattern: "/unread-count", Handler: h.UnreadCount, Summary: "Count unread notifications"},
			{Method: "POST", Pattern: "/read-all", Handler: h.MarkAllRead, Summary: "Mark every notification read"},
			{Method: "POST", Pattern: "/{id}/read", Handler: h.MarkRead, Summary: "Mark a notification read"},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, Summary: "Delete a notification"},
		},
	}
}

// List returns the caller's notifications, newest first. unread=true limits
// the page to unread notifications.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := handlers.Caller(w, r, h.logger)
	if !ok {
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	unread, _ := strconv.ParseBool(r.URL.Query().Get("unread"))

	result, err := h.sys.List(r.Context(), caller.UserID, page, unread)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// UnreadCount returns the number of unread notifications.
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	caller, ok := handlers.Caller(w, r, h.logger)
	if !ok {
		return
	}

	n, err := h.sys.UnreadCount(r.Context(), caller.UserID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, UnreadCount{Unread: n})
}

// MarkRead marks one of the caller's notifications read.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	caller, ok := handlers.Caller(w, r, h.logger)
	if !ok {
		return
	}

	id, err := handlers.PathID(r, "id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.MarkRead(r.Context(), caller.UserID, id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead marks every unread notification of the caller read.
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	caller, ok := handlers.Caller(w, r, h.logger)
	if !ok {
		return
	}

	n, err := h.sys.MarkAllRead(r.Context(), caller.UserID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, MarkAllResult{Updated: n})
}

// Delete removes one of the caller's notifications.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := handlers.Caller(w, r, h.logger)
	if !ok {
		return
	}

	id, err := handlers.PathID(r, "id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Delete(r.Context(), caller.UserID, id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
