// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, events, tokens,
// authorization) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/steward/internal/config"
	"github.com/JaimeStill/steward/pkg/authz"
	"github.com/JaimeStill/steward/pkg/database"
	"github.com/JaimeStill/steward/pkg/events"
	"github.com/JaimeStill/steward/pkg/lifecycle"
	"github.com/JaimeStill/steward/pkg/storage"
	"github.com/JaimeStill/steward/pkg/token"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, file storage, and the event bus.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Events    events.Bus
	Tokens    *token.Manager
	Authz     *authz.Enforcer
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	tokens, err := token.New(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTLDuration())
	if err != nil {
		return nil, fmt.Errorf("token init failed: %w", err)
	}

	enforcer, err := authz.New(logger)
	if err != nil {
		return nil, fmt.Errorf("authz init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Events:    events.New(cfg.Events.Buffer, logger),
		Tokens:    tokens,
		Authz:     enforcer,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// Event subscriptions must be registered before Start is called.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	i.Lifecycle.Check("database", i.Database)
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	i.Lifecycle.Check("storage", i.Storage)
	if err := i.Events.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("events start failed: %w", err)
	}
	return nil
}
