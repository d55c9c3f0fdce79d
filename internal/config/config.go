// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - Functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"fmt"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StorageDriver selects the client store backend.
	StorageDriver string `koanf:"storage_driver"`

	// DataDir holds one JSON file per record for the file driver.
	DataDir string `koanf:"data_dir"`

	// SQLitePath is the database file for the sqlite driver.
	SQLitePath string `koanf:"sqlite_path"`

	// DatabaseURL is the connection string for the postgres driver.
	DatabaseURL string `koanf:"database_url"`

	// DemoClientID is the reserved read-only client.
	DemoClientID string `koanf:"demo_client_id"`

	// GRIDisclosures adds or overrides topic name to GRI disclosure mappings.
	GRIDisclosures map[string]string `koanf:"gri_disclosures"`
}

// New creates a Config with defaults. The context is reserved for future
// use and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		Addr:          ":9080",
		StorageDriver: DriverMemory,
		DataDir:       "data",
		SQLitePath:    "sema.db",
		DemoClientID:  "demo",
	}
}

// Validate checks that the selected driver has what it needs.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.DemoClientID == "" {
		return fmt.Errorf("%w: demo_client_id must not be empty", ErrInvalidConfig)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}

	switch c.StorageDriver {
	case DriverMemory:
	case DriverFile:
		if c.DataDir == "" {
			return fmt.Errorf("%w: data_dir is required for the file driver", ErrInvalidConfig)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: sqlite_path is required for the sqlite driver", ErrInvalidConfig)
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: database_url is required for the postgres driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: %w %q", ErrInvalidConfig, ErrUnknownDriver, c.StorageDriver)
	}
	return nil
}
