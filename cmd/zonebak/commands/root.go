// Package commands implements the CLI commands for zonebak.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/zonebak/internal/backup"
	"github.com/thoreinstein/zonebak/internal/errors"
	"github.com/thoreinstein/zonebak/internal/logging"
	"github.com/thoreinstein/zonebak/internal/zone"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

var rootCmd = &cobra.Command{
	Use:   "zonebak [config-file]",
	Short: "Change-aware backup of zone configurations",
	Long: `zonebak captures the configuration of every provisioned zone on this
host, bundles the captures into a compressed archive, and retains a
bounded history of such archives in the configured output directory.

A run writes a new archive only when the captured configuration differs
from the newest existing archive, so scheduling zonebak frequently is
cheap. The newest archive is always reachable through the
{prefix}_latest symlink, ready for other synchronization tools to pick
up as an ordinary file.

The single optional argument names the configuration file. When omitted,
$XDG_CONFIG_HOME/zonebak/config.toml is used.`,
	Example: `  # Run a backup pass with an explicit config
  zonebak /etc/zonebak.toml

  # Run with the default config location
  zonebak

  # Write a starter config
  zonebak init /etc/zonebak.toml

  # Inspect the archive history
  zonebak list /etc/zonebak.toml`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd)
	},
	RunE: runBackup,
}

func runBackup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	log := logging.FromContext(cmd.Context())
	runner := backup.NewRunner(cfg, zone.NewExecSource(), backup.WithLogger(log))

	res, err := runner.Run(cmd.Context())
	if err != nil {
		return classify(err)
	}

	printRunResult(cmd.OutOrStdout(), res)
	return nil
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		level = logging.LevelFromVerbosity(verbosity)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
