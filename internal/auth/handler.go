package auth

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/steward/pkg/handlers"
	"github.com/JaimeStill/steward/pkg/middleware"
	"github.com/JaimeStill/steward/pkg/routes"
)

// Handler provides HTTP endpoints for authentication.
type Handler struct {
	sys     System
	limiter *middleware.RateLimiter
	logger  *slog.Logger
}

// NewHandler creates a Handler. Login requests are throttled by limiter.
func NewHandler(sys System, limiter *middleware.RateLimiter, logger *slog.Logger) *Handler {
	return &Handler{
		sys:     sys,
		limiter: limiter,
		logger:  logger.With("handler", "auth"),
	}
}

// Routes returns the route group definition for authentication endpoints.
func (h *Handler) Routes() routes.Group {
	login := middleware.RateLimit(h.limiter)(http.HandlerFunc(h.Login))

	return routes.Group{
		Prefix: "/auth",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/login", Handler: login.ServeHTTP, Summary: "Exchange credentials for a bearer token", Public: true},
			{Method: "GET", Pattern: "/me", Handler: h.Me, Summary: "Get the authenticated user"},
		},
	}
}

// Login verifies credentials and returns a signed bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var cmd LoginCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	resp, err := h.sys.Login(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Me returns the authenticated user's account.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := handlers.Caller(w, r, h.logger)
	if !ok {
		return
	}

	u, err := h.sys.Me(r.Context(), p)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, u)
}
