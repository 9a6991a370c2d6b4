package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config for environment-variable parsing. DATABASE_URL
// and JWT_SECRET match the names the service has always been deployed with.
type envConfig struct {
	EndpointAddr          string        `env:"ENDPOINT_ADDR"`
	DatabaseDSN           string        `env:"DATABASE_URL"`
	SecretKey             string        `env:"JWT_SECRET"`
	TokenValidityDuration time.Duration `env:"TOKEN_VALIDITY"`
	RegisterOverwrite     bool          `env:"REGISTER_OVERWRITE"`
}

// parseEnv overlays values from environment variables onto the Config.
// Unset variables leave the current values untouched. A malformed value
// (e.g. an unparsable TOKEN_VALIDITY) panics, mirroring the JSON loader.
func parseEnv(config *Config) {
	c := envConfig{}
	if err := env.Parse(&c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenValidityDuration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration
	}
	if c.RegisterOverwrite {
		config.RegisterOverwrite = true
	}
}
