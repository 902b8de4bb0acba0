// Package config provides configuration management for dscurate.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Copy: batch_size, on_error, sidecar_match
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - WithProgress (disabled by --quiet)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use DSCURATE_ prefix with underscores for nesting:
//
//	DSCURATE_COPY_BATCH_SIZE=10000
//	DSCURATE_COPY_ON_ERROR=abort
//	DSCURATE_LOG_LEVEL=info
//	DSCURATE_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Failure policies for per-record errors during copy.
const (
	OnErrorContinue = "continue"
	OnErrorAbort    = "abort"
)

// Sidecar association modes.
const (
	// MatchPrefix associates every file whose name starts with the image
	// stem. It over-matches when one stem is a prefix of another
	// ("img1" picks up "img10.png").
	MatchPrefix = "prefix"
	// MatchStem associates only files named exactly like the stem or
	// starting with the stem followed by a dot.
	MatchStem = "stem"
)

// Config represents the complete dscurate configuration.
type Config struct {
	// Copy contains settings of the database-driven copy pipeline.
	Copy CopyConfig `mapstructure:"copy" yaml:"copy"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel operations.
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// WithProgress enables console progress bars.
	WithProgress bool `mapstructure:"-" yaml:"-"`

	// HomeDir determines where config and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string `mapstructure:"-" yaml:"-"`
}

// CopyConfig contains settings of the copy pipeline.
type CopyConfig struct {
	// BatchSize is the number of database rows fetched and copied
	// together before the next batch is requested.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`

	// OnError decides what happens when one record cannot be copied.
	// Valid values: "continue", "abort".
	OnError string `mapstructure:"on_error" yaml:"on_error"`

	// SidecarMatch decides how sidecar files are associated with an image.
	// Valid values: "prefix", "stem".
	SidecarMatch string `mapstructure:"sidecar_match" yaml:"sidecar_match"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`

	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`

	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Copy: CopyConfig{
			BatchSize:    10_000,
			OnError:      OnErrorContinue,
			SidecarMatch: MatchPrefix,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber:   runtime.NumCPU(),
		WithProgress: true,
	}
	return res
}
