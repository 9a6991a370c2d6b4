// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment variables, and
// command-line flags.
package config

import (
	"errors"
	"time"
)

// Config holds runtime settings for the authgate server.
//
// Fields:
//   - EndpointAddr: bind address for the public HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx).
//   - SecretKey: HMAC secret for signing JWTs (HS256).
//   - TokenValidityDuration: lifetime of issued tokens.
//   - RegisterOverwrite: when true, registering an email that already exists
//     deletes the previous account instead of returning a conflict. Off by
//     default; the overwrite behavior silently discards accounts.
type Config struct {
	EndpointAddr          string
	DatabaseDSN           string
	SecretKey             string
	TokenValidityDuration time.Duration
	RegisterOverwrite     bool
}

// LoadDefaults populates Config with development defaults. The DSN and the
// secret are deliberately left empty: both are deployment-specific and the
// server refuses to start without them.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = ""
	c.TokenValidityDuration = 720 * time.Hour
	c.RegisterOverwrite = false
}

// Validate checks that the settings the server cannot run without are
// present. It is called once at startup; a failure is fatal.
func (c *Config) Validate() error {
	if c.DatabaseDSN == "" {
		return errors.New("DATABASE_URL not configured")
	}
	if c.SecretKey == "" {
		return errors.New("JWT_SECRET not configured")
	}
	if c.TokenValidityDuration <= 0 {
		return errors.New("token validity must be positive")
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, environment variables, and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
