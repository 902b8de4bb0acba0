package lifecycle_test

import (
	"testing"

	"github.com/dscurate/dscurate/internal/iocaptions"
	"github.com/dscurate/dscurate/internal/iocopy"
	"github.com/dscurate/dscurate/internal/iodb"
	"github.com/dscurate/dscurate/internal/ioimport"
	"github.com/dscurate/dscurate/internal/ioverify"
	"github.com/dscurate/dscurate/pkg/config"
	"github.com/dscurate/dscurate/pkg/lifecycle"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

// TestContracts ensures that the I/O packages satisfy the lifecycle
// interfaces.
func TestContracts(t *testing.T) {
	cfg := config.New()
	fs := afero.NewMemMapFs()

	var _ lifecycle.Copier = iocopy.New(cfg, fs, iodb.NewOperator())
	var _ lifecycle.CaptionCopier = iocaptions.New(cfg, fs)
	var _ lifecycle.Verifier = ioverify.New(cfg, fs)
	var _ lifecycle.Importer = ioimport.New(cfg, fs, iodb.NewOperator())

	assert.True(t, true, "I/O packages should implement lifecycle interfaces")
}

func TestCopyStatsAdd(t *testing.T) {
	var s lifecycle.CopyStats
	s.Add(lifecycle.CopyStats{Records: 10, Copied: 8, Files: 16, Missing: 1, Failed: 1})
	s.Add(lifecycle.CopyStats{Records: 5, Copied: 5, Files: 5})
	assert.Equal(t, lifecycle.CopyStats{
		Records: 15, Copied: 13, Files: 21, Missing: 1, Failed: 1,
	}, s)
}
