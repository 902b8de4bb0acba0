/*
Copyright © 2025 The dscurate Authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dscurate/dscurate/internal/iofs"
	"github.com/dscurate/dscurate/internal/iologger"
	app "github.com/dscurate/dscurate/pkg"
	"github.com/dscurate/dscurate/pkg/config"
	"github.com/gnames/gn"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
	quiet   bool
)

// getRootCmd creates the base command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "dscurate",
		Short:   "dscurate curates tag-based image datasets",
		Long: `dscurate builds training subsets out of imageboard dumps.

Commands:
  - copy: copy images selected by tags from a dataset database
  - captions: copy images whose caption files contain given captions
  - broken: list image files that cannot be decoded
  - import: build a SQLite index from gallery-dl metadata files

dscurate never deletes files or database rows; pruning a dataset is
left to the user.

Supported dataset layouts:
  - danbooru: {md5[:2]}/{md5}.{ext}, metadata in the posts table
  - gallery-dl: {category}_{id}_{filename}.{ext}, metadata in the
    images table (see 'dscurate import')

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (DSCURATE_*), a .env file is loaded too
  3. Config file (~/.config/dscurate/config.yaml)
  4. Built-in defaults

Environment Variables:
  DSCURATE_COPY_BATCH_SIZE        rows fetched per batch
  DSCURATE_COPY_ON_ERROR          continue or abort
  DSCURATE_COPY_SIDECAR_MATCH     prefix or stem
  DSCURATE_JOBS_NUMBER            number of parallel workers
  DSCURATE_LOG_LEVEL              debug, info, warn, error
  DSCURATE_LOG_FORMAT             json, text, tint
  DSCURATE_LOG_DESTINATION        file, stderr, stdout`,
		PersistentPreRunE: bootstrap,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Remove the automatic "dscurate version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for dscurate")
	rootCmd.PersistentFlags().BoolVarP(
		&quiet, "quiet", "q", false,
		"do not show progress bars",
	)

	rootCmd.AddCommand(
		getCopyCmd(),
		getCaptionsCmd(),
		getBrokenCmd(),
		getImportCmd(),
	)
	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		gn.PrintErrorMessage(iofs.ReadFileError(".env", err))
		return err
	}

	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	if err = iologger.Init(config.LogDir(homeDir), config.New().Log); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	cfg.Update([]config.Option{
		config.OptHomeDir(homeDir),
		config.OptWithProgress(!quiet),
	})

	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"command", cmd.Name(),
	)
	return nil
}

// reconfigureLogging reinitializes the logger with the loaded configuration.
func reconfigureLogging(cfg *config.Config) error {
	logDir := config.LogDir(cfg.HomeDir)
	return iologger.Init(logDir, cfg.Log)
}

// Execute adds all child commands to the root command and runs it with a
// context that is cancelled on SIGINT or SIGTERM.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	err := getRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	v.SetEnvPrefix("DSCURATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Copy configuration
	v.BindEnv("copy.batch_size", "DSCURATE_COPY_BATCH_SIZE")
	v.BindEnv("copy.on_error", "DSCURATE_COPY_ON_ERROR")
	v.BindEnv("copy.sidecar_match", "DSCURATE_COPY_SIDECAR_MATCH")

	// Log configuration
	v.BindEnv("log.level", "DSCURATE_LOG_LEVEL")
	v.BindEnv("log.format", "DSCURATE_LOG_FORMAT")
	v.BindEnv("log.destination", "DSCURATE_LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "DSCURATE_JOBS_NUMBER")

	v.AutomaticEnv()
}
