package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dscurate/dscurate/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetCaptionsCmd_Flags verifies flags of the captions command.
func TestGetCaptionsCmd_Flags(t *testing.T) {
	cmd := getCaptionsCmd()
	assert.Equal(t, "captions", cmd.Use)
	for _, name := range []string{"input", "output", "captions", "sidecar-match"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "--%s flag should exist", name)
	}
}

// TestGetCaptionsCmd_CommaCaption verifies that a caption with commas
// stays one value.
func TestGetCaptionsCmd_CommaCaption(t *testing.T) {
	cmd := getCaptionsCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"--captions", "red hair, smile", "-c", "1girl",
	}))
	res, err := cmd.Flags().GetStringArray("captions")
	require.NoError(t, err)
	assert.Equal(t, []string{"red hair, smile", "1girl"}, res)
}

// TestGetImportCmd_Flags verifies flags of the import command.
func TestGetImportCmd_Flags(t *testing.T) {
	cmd := getImportCmd()
	assert.Equal(t, "import", cmd.Use)

	fl := cmd.Flags().Lookup("img")
	require.NotNil(t, fl)
	assert.Equal(t, "i", fl.Shorthand)
	fl = cmd.Flags().Lookup("out")
	require.NotNil(t, fl)
	assert.Equal(t, "o", fl.Shorthand)
}

// TestGetBrokenCmd_Args verifies that broken needs exactly one directory.
func TestGetBrokenCmd_Args(t *testing.T) {
	cmd := getBrokenCmd()
	assert.Error(t, cmd.Args(cmd, nil))
	assert.Error(t, cmd.Args(cmd, []string{"a", "b"}))
	assert.NoError(t, cmd.Args(cmd, []string{"a"}))
	assert.NotNil(t, cmd.Flags().Lookup("pattern"))
}

// TestRunBroken verifies the report format.
func TestRunBroken(t *testing.T) {
	cfg = config.New()
	cfg.Update([]config.Option{config.OptWithProgress(false)})

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("garbage"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), nil, 0644))

	cmd := getBrokenCmd()
	cmd.SetContext(context.Background())
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	require.NoError(t, runBroken(cmd, dir, nil))
	assert.Contains(t, buf.String(), bad+": ")
	assert.NotContains(t, buf.String(), "skip.txt")
}
