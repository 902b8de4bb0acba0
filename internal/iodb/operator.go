// Package iodb implements database operations on SQLite dataset files.
// This is an impure I/O package that implements contracts
// defined in pkg/.
package iodb

import (
	"context"
	"database/sql"
	"errors"
	"os"

	"github.com/dscurate/dscurate/pkg/db"
	_ "modernc.org/sqlite"
)

// sqliteOperator implements db.Operator for SQLite files.
type sqliteOperator struct {
	db *sql.DB
}

// NewOperator creates a new database operator (without connecting).
func NewOperator() db.Operator {
	return &sqliteOperator{}
}

// Open connects to a SQLite file.
func (o *sqliteOperator) Open(
	ctx context.Context,
	path string,
	readOnly bool,
) error {
	if readOnly {
		// sqlite would silently create an empty database otherwise
		if _, err := os.Stat(path); err != nil {
			return OpenError(path, err)
		}
	}

	sdb, err := sql.Open("sqlite", path)
	if err != nil {
		return OpenError(path, err)
	}
	// one connection keeps pragmas in effect for every statement
	sdb.SetMaxOpenConns(1)

	pragmas := []string{"PRAGMA busy_timeout = 5000"}
	if readOnly {
		pragmas = append(pragmas, "PRAGMA query_only = ON")
	}
	for _, p := range pragmas {
		if _, err = sdb.ExecContext(ctx, p); err != nil {
			sdb.Close()
			return OpenError(path, err)
		}
	}

	if err = sdb.PingContext(ctx); err != nil {
		sdb.Close()
		return OpenError(path, err)
	}

	o.db = sdb
	return nil
}

// Close releases the database connection.
func (o *sqliteOperator) Close() error {
	if o.db == nil {
		return nil
	}
	err := o.db.Close()
	o.db = nil
	return err
}

// DB returns the underlying handle.
func (o *sqliteOperator) DB() *sql.DB {
	return o.db
}

// TableExists checks if a table exists in the database.
func (o *sqliteOperator) TableExists(
	ctx context.Context,
	table string,
) (bool, error) {
	if o.db == nil {
		return false, NotConnectedError()
	}

	q := `SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?`
	var one int
	err := o.db.QueryRowContext(ctx, q, table).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, QueryError(err)
	}
	return true, nil
}
