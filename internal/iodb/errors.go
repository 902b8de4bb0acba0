package iodb

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/dscurate/dscurate/pkg/errcode"
	"github.com/gnames/gn"
)

// OpenError is returned when a SQLite file cannot be opened.
func OpenError(path string, err error) error {
	msg := `Cannot open database <em>%s</em>

<em>Possible causes:</em>
  - The file does not exist or is not readable
  - The file is not a SQLite database`
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBOpenError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot open %s: %w",
			fn.Name(), path, err),
	}
}

// NotConnectedError is returned when an operation needs an open database.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Database operation attempted without open database",
		Err:  errors.New("database is not open"),
	}
}

// QueryError is returned when a statement fails to execute.
func QueryError(err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBQueryError,
		Msg:  "Database query failed",
		Err:  fmt.Errorf("from %s: query failed: %w", fn.Name(), err),
	}
}

// ScanError is returned when a row does not fit the expected columns.
func ScanError(err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBScanError,
		Msg:  "Cannot read a database row",
		Err:  fmt.Errorf("from %s: scan failed: %w", fn.Name(), err),
	}
}

// IterationError is returned when reading rows stops on an error.
func IterationError(err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBIterationError,
		Msg:  "Reading database rows failed",
		Err:  fmt.Errorf("from %s: iteration failed: %w", fn.Name(), err),
	}
}

// CancelledError is returned when reading rows stops because the
// context is done.
func CancelledError(err error) error {
	return &gn.Error{
		Code: errcode.DBCancelledError,
		Msg:  "Reading database rows was cancelled",
		Err:  fmt.Errorf("rows reading cancelled: %w", err),
	}
}
