package ioverify

import (
	"errors"
	"fmt"

	"github.com/dscurate/dscurate/pkg/errcode"
	"github.com/gnames/gn"
)

// PatternError is returned for a malformed glob pattern.
func PatternError(pattern string) error {
	msg := "Invalid file pattern <em>%s</em>"
	vars := []any{pattern}
	return &gn.Error{
		Code: errcode.VerifyPatternError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("bad pattern %q: %w", pattern, errors.New("syntax error")),
	}
}

// WalkError is returned when the image tree cannot be traversed.
func WalkError(dir string, err error) error {
	msg := "Cannot read directory <em>%s</em>"
	vars := []any{dir}
	return &gn.Error{
		Code: errcode.ReadDirError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("walk %s: %w", dir, err),
	}
}
