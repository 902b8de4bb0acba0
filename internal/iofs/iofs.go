// Package iofs implements file system operations: application
// directories, the available-files snapshot and sidecar copying.
package iofs

import (
	"fmt"
	"os"

	"github.com/dscurate/dscurate/pkg/config"
	"gopkg.in/yaml.v3"
)

const configHeader = `# dscurate configuration.
#
# Every value can be overridden by an environment variable with the
# DSCURATE_ prefix (copy.batch_size -> DSCURATE_COPY_BATCH_SIZE) and by
# command line flags.
#
# copy.on_error: continue | abort
# copy.sidecar_match: prefix | stem
# log.format: json | text | tint
# log.level: debug | info | warn | error
# log.destination: file | stderr | stdout

`

// EnsureDirs creates configuration and log directories.
func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := EnsureDir(v); err != nil {
			return err
		}
	}
	return nil
}

// EnsureDir creates a directory with all its parents if it does not
// exist yet.
func EnsureDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

// ConfigYAML renders default settings as a documented config file.
func ConfigYAML() (string, error) {
	body, err := yaml.Marshal(config.New())
	if err != nil {
		return "", fmt.Errorf("cannot render default config: %w", err)
	}
	return configHeader + string(body), nil
}

// EnsureConfigFile writes the default config file unless one exists.
func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	content, err := ConfigYAML()
	if err != nil {
		return WriteFileError(configPath, err)
	}

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return WriteFileError(configPath, err)
	}

	return nil
}
