package iocopy

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/dscurate/dscurate/pkg/errcode"
	"github.com/gnames/gn"
)

// RecordError wraps an I/O failure of a single record.
func RecordError(id int64, err error) error {
	msg := "Cannot copy files of record <em>%d</em>"
	vars := []any{id}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CopyRecordError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: record %d: %w",
			fn.Name(), id, err),
	}
}

// SourceMissingError is returned when no file on disk belongs to a
// record.
func SourceMissingError(id int64, path string) error {
	msg := "No files found for record <em>%d</em> (%s)"
	vars := []any{id, path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CopySourceMissingError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: record %d: missing %s",
			fn.Name(), id, path),
	}
}

// CancelledError is returned when the copy run is interrupted.
func CancelledError(err error) error {
	msg := "Copy was cancelled"
	return &gn.Error{
		Code: errcode.CopyCancelledError,
		Msg:  msg,
		Err:  fmt.Errorf("copy cancelled: %w", err),
	}
}

// asCancelled reports any error of a done run as CancelledError.
func asCancelled(ctx context.Context, err error) error {
	if err == nil || ctx.Err() == nil || hasCode(err, errcode.CopyCancelledError) {
		return err
	}
	return CancelledError(ctx.Err())
}

func isMissing(err error) bool {
	return hasCode(err, errcode.CopySourceMissingError)
}

func hasCode(err error, code gn.ErrorCode) bool {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		return gnErr.Code == code
	}
	return false
}

// errMessage renders the user-facing message of an error.
func errMessage(err error) string {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) && gnErr.Msg != "" {
		return fmt.Sprintf(gnErr.Msg, gnErr.Vars...)
	}
	return err.Error()
}
