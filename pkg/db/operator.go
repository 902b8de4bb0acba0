package db

import (
	"context"
	"database/sql"
)

// Operator defines the interface for basic database management operations.
// It owns the connection lifecycle of a single-file SQLite dataset and
// exposes the *sql.DB for components (copy, import) that run their own
// statements.
type Operator interface {
	// Open connects to the SQLite file at path. With readOnly the file
	// must exist and no statement can modify it; otherwise the file is
	// created when missing.
	Open(ctx context.Context, path string, readOnly bool) error

	// Close closes the database connection.
	Close() error

	// DB returns the underlying handle. It is nil before Open.
	DB() *sql.DB

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, table string) (bool, error)
}
