package cmd

import (
	"strings"
)

// normValue normalizes an enum flag value the way config options do.
func normValue(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
