package tickets

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/handlers"
	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/principal"
	"github.com/JaimeStill/steward/pkg/routes"
)

// Handler provides HTTP endpoints for ticket operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "tickets"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for ticket endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/tickets",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, Summary: "List tickets"},
			{Method: "GET", Pattern: "/pending", Handler: h.Pending, Summary: "Tickets awaiting the caller's approval"},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, Summary: "Get a ticket with its approval history"},
			{Method: "POST", Pattern: "", Handler: h.Submit, Summary: "Submit a ticket"},
			{Method: "POST", Pattern: "/search", Handler: h.Search, Summary: "Search tickets"},
			{Method: "POST", Pattern: "/{id}/approve", Handler: h.Approve, Summary: "Approve the current step"},
			{Method: "POST", Pattern: "/{id}/reject", Handler: h.Reject, Summary: "Reject the ticket"},
			{Method: "POST", Pattern: "/{id}/cancel", Handler: h.Cancel, Summary: "Cancel a pending ticket"},
		},
	}
}

// List returns a paginated list of tickets. mine=true limits results to the
// caller's own requests.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := handlers.Caller(w, r, h.logger)
	if !ok {
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), caller.UserID, page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching tickets.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	caller, ok := handlers.Caller(w, r, h.logger)
	if !ok {
		return
	}

	var req SearchRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.List(r.Context(), caller.UserID, req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Pending returns tickets whose current approver is the caller.
func (h *Handler) Pending(w http.ResponseWriter, r *http.Request) {
	caller, ok := handlers.Caller(w, r, h.logger)
	if !ok {
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.Pending(r.Context(), caller.UserID, page)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a ticket and its approval history.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	detail, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, detail)
}

// Submit files a ticket for the caller against a catalog item.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	caller, ok := handlers.Caller(w, r, h.logger)
	if !ok {
		return
	}

	var cmd SubmitCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	t, err := h.sys.Submit(r.Context(), caller.UserID, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, t)
}

// Approve records the caller's approval of the current step.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.sys.Approve)
}

// Reject records the caller's rejection, closing the ticket.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.sys.Reject)
}

// Cancel withdraws a pending ticket.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	caller, ok := handlers.Caller(w, r, h.logger)
	if !ok {
		return
	}

	id, err := handlers.PathID(r, "id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	t, err := h.sys.Cancel(r.Context(), caller, id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, t)
}

type decideFunc = func(ctx context.Context, actor principal.Principal, id uuid.UUID, cmd DecisionCommand) (*Ticket, error)

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, fn decideFunc) {
	caller, ok := handlers.Caller(w, r, h.logger)
	if !ok {
		return
	}

	id, err := handlers.PathID(r, "id")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var cmd DecisionCommand
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &cmd); err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}
	}

	t, err := fn(r.Context(), caller, id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, t)
}
