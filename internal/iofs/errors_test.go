package iofs

import (
	"errors"
	"testing"

	"github.com/dscurate/dscurate/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrors_Structure verifies code, message vars and
// wrapping of every file system error.
func TestErrors_Structure(t *testing.T) {
	originalErr := errors.New("root cause")

	tests := []struct {
		name  string
		err   error
		code  gn.ErrorCode
		path  string
		inErr string
	}{
		{"CreateDirError", CreateDirError("/dir", originalErr),
			errcode.CreateDirError, "/dir", "cannot create"},
		{"CopyFileError", CopyFileError("/file", originalErr),
			errcode.CopyFileError, "/file", "cannot copy"},
		{"ReadFileError", ReadFileError("/path", originalErr),
			errcode.ReadFileError, "/path", "cannot read"},
		{"ReadDirError", ReadDirError("/images", originalErr),
			errcode.ReadDirError, "/images", "cannot list"},
		{"WriteFileError", WriteFileError("/out.txt", originalErr),
			errcode.WriteFileError, "/out.txt", "cannot write"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gnErr, ok := tt.err.(*gn.Error)
			require.True(t, ok, "Error should be of type *gn.Error")

			assert.Equal(t, tt.code, gnErr.Code)
			assert.Contains(t, gnErr.Msg, "%s")
			require.Len(t, gnErr.Vars, 1)
			assert.Equal(t, tt.path, gnErr.Vars[0])

			assert.ErrorIs(t, gnErr.Err, originalErr,
				"Should be able to unwrap to original error")
			assert.Contains(t, gnErr.Err.Error(), tt.inErr)
			assert.Contains(t, gnErr.Err.Error(), "from",
				"Error should mention caller context")
		})
	}
}
