// Package migrations applies the embedded schema for each SQL backend.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

const ledgerDDL = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    TEXT PRIMARY KEY,
    applied_at TEXT NOT NULL
)`

// Pending lists the migration files for driver in apply order.
func Pending(driver database.Driver) ([]string, error) {
	if !driver.IsValid() {
		return nil, fmt.Errorf("no migrations for driver %q", driver)
	}
	entries, err := fs.ReadDir(files, driver.String())
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Run applies every migration conn has not seen yet, each in its own
// transaction, and returns the versions it applied.
func Run(ctx context.Context, conn database.Connection) ([]string, error) {
	if _, err := conn.Exec(ctx, ledgerDDL); err != nil {
		return nil, fmt.Errorf("create migration ledger: %w", err)
	}

	names, err := Pending(conn.Driver())
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, name := range names {
		version := strings.TrimSuffix(name, ".up.sql")
		done, err := isApplied(ctx, conn, version)
		if err != nil {
			return applied, err
		}
		if done {
			continue
		}
		if err := apply(ctx, conn, name, version); err != nil {
			return applied, err
		}
		applied = append(applied, version)
	}
	return applied, nil
}

func isApplied(ctx context.Context, conn database.Connection, version string) (bool, error) {
	var count int
	query := database.Rebind(conn.Driver(), `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`)
	if err := conn.QueryRow(ctx, query, version).Scan(&count); err != nil {
		return false, fmt.Errorf("check migration %s: %w", version, err)
	}
	return count > 0, nil
}

func apply(ctx context.Context, conn database.Connection, name, version string) error {
	body, err := files.ReadFile(conn.Driver().String() + "/" + name)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", name, err)
	}

	tx, err := conn.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", version, err)
	}
	if _, err := tx.Exec(ctx, string(body)); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("apply migration %s: %w", version, err)
	}
	record := database.Rebind(conn.Driver(), `INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`)
	if _, err := tx.Exec(ctx, record, version, database.FormatTimestamp(time.Now())); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("record migration %s: %w", version, err)
	}
	return tx.Commit(ctx)
}
