// Package config provides configuration loading and validation from environment variables.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration.
type Config struct {
	LogLevel          string `env:"LOG_LEVEL"           envDefault:"info"`             // debug, info, warn, error
	ListenAddr        string `env:"LISTEN_ADDR"         envDefault:":8080"`            // Public metrics listener
	DatabasePath      string `env:"DATABASE_PATH"       envDefault:"/data/metrics.db"` // SQLite database path
	MetricsListenAddr string `env:"METRICS_LISTEN_ADDR" envDefault:"localhost:9090"`   // Self-instrumentation listener
	PublicURL         string `env:"PUBLIC_URL"`                                        // Optional: base of displayed metrics URLs
	AdminToken        string `env:"ADMIN_TOKEN"`                                       // Optional: seeds the first admin token
	MaxBodyBytes      int64  `env:"MAX_BODY_BYTES"      envDefault:"1048576"`          // Admin request body limit
}

// Load parses configuration from environment variables.
// All configuration options have sensible defaults for ease of deployment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Validate checks all configuration constraints.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q (must be: debug, info, warn, error)", c.LogLevel)
	}

	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}

	if c.PublicURL != "" {
		u, err := url.Parse(c.PublicURL)
		if err != nil {
			return fmt.Errorf("invalid PUBLIC_URL: %w", err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("PUBLIC_URL must be an absolute http(s) URL, got %q", c.PublicURL)
		}
	}

	return nil
}
