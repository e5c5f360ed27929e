// Package authz enforces role-based access to API routes with casbin.
// The model and default policy are embedded; roles inherit upward
// (member < manager < admin).
package authz

import (
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Enforcer decides whether a role may perform an HTTP method on a path.
type Enforcer struct {
	enforcer *casbin.Enforcer
	logger   *slog.Logger
}

// New creates an Enforcer from the embedded model and policy.
func New(logger *slog.Logger) (*Enforcer, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model: %w", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}

	if err := loadPolicy(e, embeddedPolicy); err != nil {
		return nil, err
	}

	return &Enforcer{
		enforcer: e,
		logger:   logger.With("system", "authz"),
	}, nil
}

// Allowed reports whether role may perform method on path.
func (e *Enforcer) Allowed(role, path, method string) (bool, error) {
	return e.enforcer.Enforce(role, path, method)
}

// Middleware rejects requests whose role is not permitted with 403.
// role extracts the caller's role; requests without one receive 401.
// Paths listed in public bypass enforcement.
func (e *Enforcer) Middleware(role func(*http.Request) (string, bool), public ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r.URL.Path, public) || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			name, ok := role(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			allowed, err := e.Allowed(name, r.URL.Path, r.Method)
			if err != nil {
				e.logger.Error("authorization check failed", "error", err)
				writeError(w, http.StatusInternalServerError, "authorization check failed")
				return
			}

			if !allowed {
				e.logger.Warn("access denied", "role", name, "method", r.Method, "path", r.URL.Path)
				writeError(w, http.StatusForbidden, "access denied")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isPublic(path string, public []string) bool {
	for _, p := range public {
		if path == p {
			return true
		}
	}
	return false
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":%q}`, msg)
}

func loadPolicy(e *casbin.Enforcer, policy string) error {
	for line := range strings.SplitSeq(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch parts[0] {
		case "p":
			if len(parts) != 4 {
				return fmt.Errorf("malformed policy line: %q", line)
			}
			if _, err := e.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
				return fmt.Errorf("add policy %v: %w", parts[1:], err)
			}
		case "g":
			if len(parts) != 3 {
				return fmt.Errorf("malformed grouping line: %q", line)
			}
			if _, err := e.AddGroupingPolicy(parts[1], parts[2]); err != nil {
				return fmt.Errorf("add grouping %v: %w", parts[1:], err)
			}
		default:
			return fmt.Errorf("unknown policy type %q", parts[0])
		}
	}
	return nil
}
