package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNoDatabaseURL is returned when neither the DATABASE_URL environment
// override nor the remote key lookup yields a connection string. Callers at
// startup treat it as fatal.
var ErrNoDatabaseURL = errors.New("no database connection string available")

// KeyLookup fetches a configuration value by name from a remote source.
// The boolean reports whether the key existed; an error is reserved for
// transport failures.
type KeyLookup interface {
	Lookup(ctx context.Context, key string) (value string, found bool, err error)
}

// ResolveDatabaseURL returns the database connection string for this process.
//
// Resolution order:
//  1. the explicit DATABASE_URL environment override (cfg.DatabaseURL)
//  2. a remote lookup of cfg.DatabaseURLKey
//
// If neither yields a non-empty value, ErrNoDatabaseURL is returned and the
// caller is expected to log the diagnostic and exit.
func ResolveDatabaseURL(ctx context.Context, cfg *Config, remote KeyLookup) (string, error) {
	if url := strings.TrimSpace(cfg.DatabaseURL); url != "" {
		return url, nil
	}

	if remote == nil {
		return "", fmt.Errorf("%w: DATABASE_URL unset and no remote source configured", ErrNoDatabaseURL)
	}

	value, found, err := remote.Lookup(ctx, cfg.DatabaseURLKey)
	if err != nil {
		return "", fmt.Errorf("remote lookup of %q: %w", cfg.DatabaseURLKey, err)
	}
	if !found || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%w: DATABASE_URL unset and key %q not found remotely", ErrNoDatabaseURL, cfg.DatabaseURLKey)
	}
	return strings.TrimSpace(value), nil
}
