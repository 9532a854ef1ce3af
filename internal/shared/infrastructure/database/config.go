package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config selects and parameterises a SQL connection.
type Config struct {
	// Driver is detected from URL when empty.
	Driver Driver
	// URL is the PostgreSQL connection string.
	URL string
	// SQLitePath defaults to ~/.cadence/data.db.
	SQLitePath string
	// MaxConns caps the PostgreSQL pool size.
	MaxConns int
}

// Opener builds a Connection for one driver. Driver packages register
// themselves from init so callers only import what they use.
type Opener func(ctx context.Context, cfg Config) (Connection, error)

var openers = map[Driver]Opener{}

// Register installs the opener for a driver.
func Register(driver Driver, open Opener) {
	openers[driver] = open
}

// Open connects using the registered opener for the configured driver.
func Open(ctx context.Context, cfg Config) (Connection, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DetectDriver(cfg.URL)
	}
	open, ok := openers[driver]
	if !ok {
		return nil, fmt.Errorf("database driver %q is not registered", driver)
	}
	return open(ctx, cfg)
}

// DefaultSQLitePath returns ~/.cadence/data.db, falling back to the
// working directory when no home directory is known.
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".cadence", "data.db")
}

// EnsureDirectory creates the parent directory of path.
func EnsureDirectory(path string) error {
	if path == "" || strings.HasPrefix(path, "file:") || path == ":memory:" {
		return nil
	}
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
