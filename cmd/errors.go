package cmd

import (
	"fmt"

	"github.com/dscurate/dscurate/pkg/errcode"
	"github.com/gnames/gn"
)

// InvalidOptionError is returned when a flag value is rejected by the
// configuration.
func InvalidOptionError(flag, val string) error {
	msg := "Invalid value <em>%s</em> for <em>--%s</em>"
	vars := []any{val, flag}
	return &gn.Error{
		Code: errcode.InvalidOptionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("invalid value %q for --%s", val, flag),
	}
}
