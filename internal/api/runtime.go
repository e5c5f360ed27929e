package api

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeStill/steward/internal/auth"
	"github.com/JaimeStill/steward/internal/config"
	"github.com/JaimeStill/steward/internal/infrastructure"
	"github.com/JaimeStill/steward/pkg/middleware"
	"github.com/JaimeStill/steward/pkg/pagination"
)

const oidcDiscoveryTimeout = 10 * time.Second

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination    pagination.Config
	MaxUploadSize int64
	LoginLimiter  *middleware.RateLimiter
	External      auth.ExternalVerifier
}

// NewRuntime creates an API runtime with a module-scoped logger. When an
// OIDC issuer is configured its discovery document is fetched here.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) (*Runtime, error) {
	logger := infra.Logger.With("module", "api")

	var external auth.ExternalVerifier
	if cfg.Auth.OIDCEnabled() {
		ctx, cancel := context.WithTimeout(infra.Lifecycle.Context(), oidcDiscoveryTimeout)
		defer cancel()

		v, err := auth.NewOIDCVerifier(ctx, cfg.Auth.OIDCIssuer, cfg.Auth.OIDCClientID)
		if err != nil {
			return nil, fmt.Errorf("oidc init failed: %w", err)
		}
		external = v
		logger.Info("external identity provider configured", "issuer", cfg.Auth.OIDCIssuer)
	}

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Database:  infra.Database,
			Storage:   infra.Storage,
			Events:    infra.Events,
			Tokens:    infra.Tokens,
			Authz:     infra.Authz,
		},
		Pagination:    cfg.API.Pagination,
		MaxUploadSize: cfg.API.MaxUploadSizeBytes(),
		LoginLimiter:  middleware.NewRateLimiter(cfg.Auth.LoginRate, cfg.Auth.LoginBurst),
		External:      external,
	}, nil
}
