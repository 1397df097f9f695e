// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr string `env:"ADDR" envDefault:":8080"`

	// DatabasePath is the local durable store for cart and session state.
	// Empty means in-memory only (state is lost on restart).
	DatabasePath string `env:"DATABASE_PATH" envDefault:"storefront.db"`

	JWTSecret   string        `env:"JWT_SECRET,required"`
	TokenExpiry time.Duration `env:"TOKEN_EXPIRY" envDefault:"24h"`

	// Simulated network latency of the mock collaborators.
	CatalogLatency time.Duration `env:"CATALOG_LATENCY" envDefault:"600ms"`
	AuthLatency    time.Duration `env:"AUTH_LATENCY" envDefault:"800ms"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if len(cfg.JWTSecret) < 32 {
		return Config{}, fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}
	return cfg, nil
}
