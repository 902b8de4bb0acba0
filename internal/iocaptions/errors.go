package iocaptions

import (
	"errors"

	"github.com/dscurate/dscurate/pkg/errcode"
	"github.com/gnames/gn"
)

// EmptyCaptionsError is returned when no caption is given.
func EmptyCaptionsError() error {
	return &gn.Error{
		Code: errcode.EmptyCaptionsError,
		Msg:  "At least one caption is required, use <em>--captions</em>",
		Err:  errors.New("empty captions"),
	}
}
