package ioimport

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/dscurate/dscurate/pkg/errcode"
	"github.com/gnames/gn"
)

// NoFilesError is returned when the directory has no metadata files.
func NoFilesError(dir string) error {
	msg := `No JSON metadata files found in <em>%s</em>

<em>How to fix:</em>
  Run gallery-dl with the <em>--write-metadata</em> option`
	vars := []any{dir}
	return &gn.Error{
		Code: errcode.ImportNoFilesError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("no json files in %s", dir),
	}
}

// DecodeError is returned for a metadata file that is not valid JSON.
func DecodeError(path string, err error) error {
	msg := "Cannot decode metadata file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ImportDecodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: decode %s: %w", fn.Name(), path, err),
	}
}

// MissingFieldError is returned when a required field is absent.
func MissingFieldError(path, field string) error {
	msg := "Field <em>%s</em> is missing in <em>%s</em>"
	vars := []any{field, path}
	return &gn.Error{
		Code: errcode.ImportMissingFieldError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("%s: %w",
			path, errors.New("missing field "+field)),
	}
}

// CreateTableError is returned when the images table cannot be created.
func CreateTableError(err error) error {
	return &gn.Error{
		Code: errcode.DBCreateTableError,
		Msg:  "Cannot create table <em>images</em>",
		Err:  fmt.Errorf("create table images: %w", err),
	}
}

// InsertError is returned when a row cannot be stored.
func InsertError(path string, err error) error {
	msg := "Cannot store metadata in the database"
	var vars []any
	if path != "" {
		msg = "Cannot store metadata of <em>%s</em>"
		vars = []any{path}
	}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBInsertError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: insert: %w", fn.Name(), err),
	}
}
