package auth

import (
	"context"
	"net/http"

	"github.com/JaimeStill/steward/internal/users"
	"github.com/JaimeStill/steward/pkg/principal"
)

// System defines the public contract for authentication.
type System interface {
	Handler() *Handler

	Login(ctx context.Context, cmd LoginCommand) (*LoginResponse, error)
	Me(ctx context.Context, p principal.Principal) (*users.User, error)

	// Resolve authenticates the bearer token carried by r.
	Resolve(r *http.Request) (principal.Principal, error)

	// Middleware stores the resolved principal on every request context,
	// rejecting unauthenticated requests to non-public paths with 401.
	Middleware(public ...string) func(http.Handler) http.Handler
}
