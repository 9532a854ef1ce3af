package database

import (
	"context"
	"database/sql"
)

// Row is satisfied by *sql.Row and pgx.Row.
type Row interface {
	Scan(dest ...any) error
}

// Rows is the cursor shape shared by both drivers.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// Result reports rows touched by Exec.
type Result interface {
	RowsAffected() (int64, error)
}

// Executor runs statements against a connection or a transaction.
// Queries use "?" placeholders; call Rebind before passing them in.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// Transaction is an Executor that can be committed or rolled back.
type Transaction interface {
	Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Connection is a pooled handle to one database.
type Connection interface {
	Executor
	BeginTx(ctx context.Context) (Transaction, error)
	Ping(ctx context.Context) error
	Driver() Driver
	Close() error
}

// SQLExecutor adapts database/sql handles (*sql.DB, *sql.Tx) to Executor.
type SQLExecutor struct {
	Handle interface {
		ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
		QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
		QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	}
}

func (e SQLExecutor) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	return e.Handle.ExecContext(ctx, query, args...)
}

func (e SQLExecutor) QueryRow(ctx context.Context, query string, args ...any) Row {
	return e.Handle.QueryRowContext(ctx, query, args...)
}

func (e SQLExecutor) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	return e.Handle.QueryContext(ctx, query, args...)
}
