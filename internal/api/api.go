// Package api assembles the API module with all domain systems, route
// registration, and the request pipeline.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/JaimeStill/steward/internal/config"
	"github.com/JaimeStill/steward/internal/infrastructure"
	"github.com/JaimeStill/steward/internal/notifications"
	"github.com/JaimeStill/steward/internal/users"
	"github.com/JaimeStill/steward/pkg/metrics"
	"github.com/JaimeStill/steward/pkg/middleware"
	"github.com/JaimeStill/steward/pkg/module"
	"github.com/JaimeStill/steward/pkg/principal"
	"github.com/JaimeStill/steward/pkg/routes"
)

// NewModule creates the API module with all domain handlers and middleware.
// It registers event subscribers, so it must run before the infrastructure
// is started.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime, err := NewRuntime(cfg, infra)
	if err != nil {
		return nil, err
	}
	domain := NewDomain(runtime)

	notifications.NewSubscriber(domain.Notifications, runtime.Logger).Register(runtime.Events)

	if cfg.Auth.BootstrapEnabled() {
		runtime.Lifecycle.OnStartup(func() {
			// the ping hook itself may take the full connection timeout
			wait := 2 * cfg.Database.ConnTimeoutDuration()
			bootstrapAdmin(runtime.Lifecycle.Context(), domain.Users, &cfg.Auth, wait, runtime)
		})
	}

	groups := routeGroups(domain, runtime)
	spec, err := buildSpec(cfg, groups)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux, groups, spec)

	m := module.New(cfg.API.BasePath, metrics.Middleware(mux))
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	public := append(routes.PublicPaths(groups...), openAPIPath)
	m.Use(domain.Auth.Middleware(public...))
	m.Use(runtime.Authz.Middleware(callerRole, public...))

	return m, nil
}

func callerRole(r *http.Request) (string, bool) {
	p, ok := principal.From(r.Context())
	return p.Role, ok
}

// bootstrapAdmin waits for the database ping before seeding the first
// administrator.
func bootstrapAdmin(ctx context.Context, sys users.System, cfg *config.AuthConfig, wait time.Duration, runtime *Runtime) {
	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	if err := runtime.Database.WaitReady(waitCtx); err != nil {
		runtime.Logger.Error("admin bootstrap skipped", "error", err)
		return
	}

	created, err := sys.Bootstrap(ctx, cfg.BootstrapEmail, cfg.BootstrapName, cfg.BootstrapPassword)
	if err != nil {
		runtime.Logger.Error("admin bootstrap failed", "email", cfg.BootstrapEmail, "error", err)
		return
	}
	if created {
		runtime.Logger.Info("bootstrap administrator created", "email", cfg.BootstrapEmail)
	}
}
