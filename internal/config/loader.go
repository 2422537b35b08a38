// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// envPrefix namespaces every environment variable, e.g. PAWDESK_HTTP_PORT.
const envPrefix = "pawdesk"

// Config captures environment driven configuration for the service.
type Config struct {
	HTTPPort      int           `envconfig:"HTTP_PORT" default:"8080"`
	SQLiteDSN     string        `envconfig:"SQLITE_DSN" default:"file:pawdesk.db"`
	SessionSecret string        `envconfig:"SESSION_SECRET"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	InviteTTL     time.Duration `envconfig:"INVITE_TTL" default:"168h"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
	// SessionPurgeSchedule is a cron expression for the expired-session
	// cleanup job.
	SessionPurgeSchedule string `envconfig:"SESSION_PURGE_SCHEDULE" default:"17 * * * *"`
}

// Load reads an optional .env file and then the process environment.
// SESSION_SECRET is required; everything else has a default.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}

	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return Config{}, fmt.Errorf("config: PAWDESK_HTTP_PORT out of range: %d", cfg.HTTPPort)
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("config: PAWDESK_SESSION_SECRET is required")
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, errors.New("config: PAWDESK_SESSION_TTL must be positive")
	}
	if cfg.InviteTTL <= 0 {
		return Config{}, errors.New("config: PAWDESK_INVITE_TTL must be positive")
	}

	return cfg, nil
}
