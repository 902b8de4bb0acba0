package iofs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dscurate/dscurate/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestEnsureDirs_CreatesDirectories verifies all required
// directories are created.
func TestEnsureDirs_CreatesDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	err := EnsureDirs(tmpDir)
	require.NoError(t, err)

	configDir := filepath.Join(tmpDir, ".config", "dscurate")
	info, err := os.Stat(configDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir(),
		"Config directory should exist")

	logDir := filepath.Join(tmpDir, ".local", "share", "dscurate",
		"logs")
	info, err = os.Stat(logDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir(),
		"Log directory should exist")

	// Second call should succeed
	err = EnsureDirs(tmpDir)
	require.NoError(t, err)
}

// TestEnsureDir_FileInTheWay verifies an error is returned
// when a regular file occupies the path.
func TestEnsureDir_FileInTheWay(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "out")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	err := EnsureDir(filepath.Join(path, "sub"))
	require.Error(t, err)
}

// TestEnsureConfigFile_CreatesFile verifies config file
// is created from defaults and can be parsed back.
func TestEnsureConfigFile_CreatesFile(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, EnsureDirs(tmpDir))
	require.NoError(t, EnsureConfigFile(tmpDir))

	content, err := os.ReadFile(config.ConfigFilePath(tmpDir))
	require.NoError(t, err)
	assert.Contains(t, string(content), "batch_size: 10000")
	assert.Contains(t, string(content), "on_error: continue")
	assert.NotContains(t, string(content), "homedir")

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal(content, &cfg))
	assert.Equal(t, config.New().Copy, cfg.Copy)
	assert.Equal(t, config.New().Log, cfg.Log)
}

// TestEnsureConfigFile_Idempotent verifies existing file
// is not overwritten.
func TestEnsureConfigFile_Idempotent(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, EnsureDirs(tmpDir))

	configPath := config.ConfigFilePath(tmpDir)
	customContent := "# Custom config\ncopy:\n  batch_size: 5"
	err := os.WriteFile(configPath, []byte(customContent), 0644)
	require.NoError(t, err)

	require.NoError(t, EnsureConfigFile(tmpDir))

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, customContent, string(content),
		"Existing config file should not be overwritten")
}
