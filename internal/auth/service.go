package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/users"
	"github.com/JaimeStill/steward/pkg/handlers"
	"github.com/JaimeStill/steward/pkg/middleware"
	"github.com/JaimeStill/steward/pkg/principal"
	"github.com/JaimeStill/steward/pkg/token"
)

type service struct {
	users    users.System
	tokens   *token.Manager
	external ExternalVerifier
	limiter  *middleware.RateLimiter
	logger   *slog.Logger
}

// New creates the authentication system. external may be nil when no
// identity provider is configured.
func New(
	usersSys users.System,
	tokens *token.Manager,
	external ExternalVerifier,
	limiter *middleware.RateLimiter,
	logger *slog.Logger,
) System {
	return &service{
		users:    usersSys,
		tokens:   tokens,
		external: external,
		limiter:  limiter,
		logger:   logger.With("system", "auth"),
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.limiter, s.logger)
}

func (s *service) Login(ctx context.Context, cmd LoginCommand) (*LoginResponse, error) {
	u, err := s.users.Authenticate(ctx, cmd.Email, cmd.Password)
	if err != nil {
		return nil, err
	}

	raw, expires, err := s.tokens.Issue(u.ID.String(), u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("login succeeded", "user_id", u.ID, "email", u.Email)
	return &LoginResponse{Token: raw, ExpiresAt: expires, User: u}, nil
}

func (s *service) Me(ctx context.Context, p principal.Principal) (*users.User, error) {
	return s.users.Find(ctx, p.UserID)
}

func (s *service) Resolve(r *http.Request) (principal.Principal, error) {
	raw, err := bearerToken(r)
	if err != nil {
		return principal.Principal{}, err
	}

	claims, localErr := s.tokens.Verify(raw)
	if localErr == nil {
		id, err := uuid.Parse(claims.Subject)
		if err != nil {
			return principal.Principal{}, ErrInvalidToken
		}
		return principal.Principal{UserID: id, Email: claims.Email, Role: claims.Role}, nil
	}

	if s.external == nil {
		return principal.Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, localErr)
	}

	email, err := s.external.Verify(r.Context(), raw)
	if err != nil {
		return principal.Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	u, err := s.users.FindActiveByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return principal.Principal{}, fmt.Errorf("%w: no active account for %s", ErrInvalidToken, email)
		}
		return principal.Principal{}, err
	}

	return principal.Principal{UserID: u.ID, Email: u.Email, Role: u.Role}, nil
}

func (s *service) Middleware(public ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || slices.Contains(public, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			p, err := s.Resolve(r)
			if err != nil {
				handlers.RespondError(w, s.logger, MapHTTPStatus(err), err)
				return
			}

			next.ServeHTTP(w, r.WithContext(principal.With(r.Context(), p)))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	scheme, raw, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(raw), nil
}
