package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the port operations service.
// Environment variables are parsed from the PORTOPS_ prefix, e.g.
// PORTOPS_HTTP_PORT, PORTOPS_DB_DRIVER.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string      `envconfig:"LOG_LEVEL" default:"info"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Persistence. Driver is one of memory, sqlite, postgres.
	DBDriver    string `envconfig:"DB_DRIVER" default:"memory"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"portops.db"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// LockTimeout bounds how long a mutating operation waits for entity
	// locks before failing busy.
	LockTimeout time.Duration `envconfig:"LOCK_TIMEOUT" default:"5s"`

	// CacheTTL bounds staleness of display-name lookups.
	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"30s"`

	// HealthInterval is the period between dependency health probes.
	HealthInterval time.Duration `envconfig:"HEALTH_INTERVAL" default:"10s"`
}

// ResolveDefaults validates the driver selection and its required settings.
func (c *Config) ResolveDefaults() error {
	switch c.DBDriver {
	case "memory":
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("PORTOPS_SQLITE_PATH is required for the sqlite driver")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("PORTOPS_POSTGRES_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	return nil
}

// New creates a new Config by parsing environment variables.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("PORTOPS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Int("port", cfg.HTTPPort).
		Dur("lock_timeout", cfg.LockTimeout).
		Dur("cache_ttl", cfg.CacheTTL).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing.
func NewForTesting() *Config {
	return &Config{
		Environment:    EnvTesting,
		LogLevel:       "debug",
		HTTPPort:       8080,
		DBDriver:       "memory",
		LockTimeout:    time.Second,
		CacheTTL:       time.Second,
		HealthInterval: time.Second,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}
