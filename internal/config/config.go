// Package config loads server configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains all server configuration parameters.
type Config struct {
	Port       string   `env:"PORT" envDefault:"4000"`
	LogLevel   int      `env:"LOG_LEVEL" envDefault:"0"`
	BcryptCost int      `env:"BCRYPT_COST" envDefault:"10"`
	Database   Database `envPrefix:"DATABASE_"`
	JWT        JWT      `envPrefix:"JWT_"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Database contains connection and pool parameters.
type Database struct {
	URL         string        `env:"URL"`
	MaxOpen     int           `env:"MAX_OPEN" envDefault:"25"`
	MaxIdle     int           `env:"MAX_IDLE" envDefault:"25"`
	MaxLifetime time.Duration `env:"MAX_LIFETIME" envDefault:"5m"`
}

// JWT contains token signing parameters. TTL bounds every issued
// token; there is no refresh flow and no server-side revocation.
type JWT struct {
	Secret string        `env:"SECRET"`
	TTL    time.Duration `env:"TTL" envDefault:"24h"`
}

// Load parses configuration from the environment and validates the
// parameters the server cannot run without.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Database.URL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return &cfg, nil
}
