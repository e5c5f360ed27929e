package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvAuthJWTSecret    = "STEWARD_AUTH_JWT_SECRET"
	EnvAuthTokenTTL     = "STEWARD_AUTH_TOKEN_TTL"
	EnvAuthIssuer       = "STEWARD_AUTH_ISSUER"
	EnvAuthOIDCIssuer   = "STEWARD_AUTH_OIDC_ISSUER"
	EnvAuthOIDCClientID = "STEWARD_AUTH_OIDC_CLIENT_ID"
	EnvAuthLoginRate    = "STEWARD_AUTH_LOGIN_RATE"
	EnvAuthLoginBurst   = "STEWARD_AUTH_LOGIN_BURST"

	EnvAuthBootstrapEmail    = "STEWARD_AUTH_BOOTSTRAP_EMAIL"
	EnvAuthBootstrapName     = "STEWARD_AUTH_BOOTSTRAP_NAME"
	EnvAuthBootstrapPassword = "STEWARD_AUTH_BOOTSTRAP_PASSWORD"
)

const minSecretLength = 32

// AuthConfig holds bearer token, external identity, and login throttle settings.
// The Bootstrap fields seed the first administrator on an empty database.
type AuthConfig struct {
	JWTSecret         string  `toml:"jwt_secret"`
	TokenTTL          string  `toml:"token_ttl"`
	Issuer            string  `toml:"issuer"`
	OIDCIssuer        string  `toml:"oidc_issuer"`
	OIDCClientID      string  `toml:"oidc_client_id"`
	LoginRate         float64 `toml:"login_rate"`
	LoginBurst        int     `toml:"login_burst"`
	BootstrapEmail    string  `toml:"bootstrap_email"`
	BootstrapName     string  `toml:"bootstrap_name"`
	BootstrapPassword string  `toml:"bootstrap_password"`
}

// TokenTTLDuration returns TokenTTL as a time.Duration.
func (c *AuthConfig) TokenTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TokenTTL)
	return d
}

// OIDCEnabled reports whether tokens may be verified against an external provider.
func (c *AuthConfig) OIDCEnabled() bool {
	return c.OIDCIssuer != ""
}

// BootstrapEnabled reports whether an initial administrator is configured.
func (c *AuthConfig) BootstrapEnabled() bool {
	return c.BootstrapEmail != "" && c.BootstrapPassword != ""
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AuthConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AuthConfig) Merge(overlay *AuthConfig) {
	if overlay.JWTSecret != "" {
		c.JWTSecret = overlay.JWTSecret
	}
	if overlay.TokenTTL != "" {
		c.TokenTTL = overlay.TokenTTL
	}
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.OIDCIssuer != "" {
		c.OIDCIssuer = overlay.OIDCIssuer
	}
	if overlay.OIDCClientID != "" {
		c.OIDCClientID = overlay.OIDCClientID
	}
	if overlay.LoginRate != 0 {
		c.LoginRate = overlay.LoginRate
	}
	if overlay.LoginBurst != 0 {
		c.LoginBurst = overlay.LoginBurst
	}
	if overlay.BootstrapEmail != "" {
		c.BootstrapEmail = overlay.BootstrapEmail
	}
	if overlay.BootstrapName != "" {
		c.BootstrapName = overlay.BootstrapName
	}
	if overlay.BootstrapPassword != "" {
		c.BootstrapPassword = overlay.BootstrapPassword
	}
}

func (c *AuthConfig) loadDefaults() {
	if c.TokenTTL == "" {
		c.TokenTTL = "12h"
	}
	if c.Issuer == "" {
		c.Issuer = "steward"
	}
	if c.LoginRate == 0 {
		c.LoginRate = 1
	}
	if c.LoginBurst == 0 {
		c.LoginBurst = 5
	}
	if c.BootstrapName == "" {
		c.BootstrapName = "Administrator"
	}
}

func (c *AuthConfig) loadEnv() {
	if v := os.Getenv(EnvAuthJWTSecret); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv(EnvAuthTokenTTL); v != "" {
		c.TokenTTL = v
	}
	if v := os.Getenv(EnvAuthIssuer); v != "" {
		c.Issuer = v
	}
	if v := os.Getenv(EnvAuthOIDCIssuer); v != "" {
		c.OIDCIssuer = v
	}
	if v := os.Getenv(EnvAuthOIDCClientID); v != "" {
		c.OIDCClientID = v
	}
	if v := os.Getenv(EnvAuthLoginRate); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			c.LoginRate = rate
		}
	}
	if v := os.Getenv(EnvAuthLoginBurst); v != "" {
		if burst, err := strconv.Atoi(v); err == nil {
			c.LoginBurst = burst
		}
	}
	if v := os.Getenv(EnvAuthBootstrapEmail); v != "" {
		c.BootstrapEmail = v
	}
	if v := os.Getenv(EnvAuthBootstrapName); v != "" {
		c.BootstrapName = v
	}
	if v := os.Getenv(EnvAuthBootstrapPassword); v != "" {
		c.BootstrapPassword = v
	}
}

func (c *AuthConfig) validate() error {
	if len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("jwt_secret must be at least %d bytes", minSecretLength)
	}
	d, err := time.ParseDuration(c.TokenTTL)
	if err != nil {
		return fmt.Errorf("invalid token_ttl: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("token_ttl must be positive")
	}
	if c.OIDCIssuer != "" && c.OIDCClientID == "" {
		return fmt.Errorf("oidc_client_id required when oidc_issuer is set")
	}
	if c.LoginRate <= 0 {
		return fmt.Errorf("login_rate must be positive")
	}
	if c.LoginBurst < 1 {
		return fmt.Errorf("login_burst must be at least 1")
	}
	if (c.BootstrapEmail == "") != (c.BootstrapPassword == "") {
		return fmt.Errorf("bootstrap_email and bootstrap_password must be set together")
	}
	return nil
}
