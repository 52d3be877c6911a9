package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// It runs after _file references are resolved, so the value fields must be
// populated; a _file pointing at an empty file fails here rather than
// signing tokens with an empty secret. Returns an error with a descriptive
// field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// auth.secret_key is required: tokens cannot be signed without it.
	if c.Auth.SecretKey == "" {
		errs = append(errs, fmt.Errorf("auth.secret_key is required (set auth.secret_key or auth.secret_key_file)"))
	}

	if c.Auth.TokenLifetimeHours <= 0 {
		errs = append(errs, fmt.Errorf("auth.token_lifetime_hours must be > 0, got %d", c.Auth.TokenLifetimeHours))
	}

	// server.port must be positive.
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	// storage.type must be a known value.
	switch c.Storage.Type {
	case "memory", "postgres":
		// valid
	default:
		errs = append(errs, fmt.Errorf("storage.type must be \"memory\" or \"postgres\", got %q", c.Storage.Type))
	}

	// If storage.type is "postgres", a resolved DSN must be present.
	if c.Storage.Type == "postgres" && c.Storage.Postgres.DSN == "" {
		errs = append(errs, fmt.Errorf("storage.postgres.dsn is required when storage.type is \"postgres\" (set storage.postgres.dsn or storage.postgres.dsn_file)"))
	}

	// logging.level must be a known value.
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// valid
	default:
		errs = append(errs, fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}
