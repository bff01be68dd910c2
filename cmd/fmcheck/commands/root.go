// Package commands implements the CLI commands for fmcheck.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thoreinstein/fmcheck/cmd"
	"github.com/thoreinstein/fmcheck/internal/config"
	"github.com/thoreinstein/fmcheck/internal/errors"
	"github.com/thoreinstein/fmcheck/internal/logging"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configPath holds the value of the --config flag.
var configPath string

// loadedConfig is the configuration read before a subcommand runs.
var loadedConfig *config.Config

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default: ./config.yaml, then $XDG_CONFIG_HOME/fmcheck/config.yaml)")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("fmcheck version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return usageError(c, err)
	})
}

// usageError marks a command-line mistake as a user error.
func usageError(c *cobra.Command, err error) error {
	return errors.NewUserError(err, "Run: "+c.CommandPath()+" --help")
}

// userArgs wraps a positional argument check so failures are user errors.
func userArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(c *cobra.Command, args []string) error {
		if err := check(c, args); err != nil {
			return usageError(c, err)
		}
		return nil
	}
}

var rootCmd = &cobra.Command{
	Use:   "fmcheck",
	Short: "Validate Markdown frontmatter against JSON Schema",
	Long: `fmcheck walks a content directory and validates the frontmatter of every
.md and .mdx file against the schema.json stored in the same directory.

Files in directories without a schema.json are skipped. The run stops at the
first file that fails validation and exits non-zero, which makes fmcheck a
drop-in CI gate for static sites and documentation repositories.`,
	Example: `  # Validate ./content
  fmcheck validate

  # Validate another tree and annotate a GitHub pull request
  fmcheck validate docs --format github

  # Report problems without failing the build
  fmcheck validate --mode warn

  See Also: fmcheck config, fmcheck version`,
	Args: userArgs(cobra.NoArgs),
	PersistentPreRunE: func(c *cobra.Command, _ []string) error {
		if err := setupLogging(c); err != nil {
			return err
		}
		color.NoColor = !logging.SupportsColor(c.OutOrStdout())
		if c.Name() == "help" || c.Name() == "version" {
			return nil
		}
		return loadConfig()
	},
	Run: func(c *cobra.Command, _ []string) {
		_ = c.Help()
	},
}

// loadConfig reads configuration from file, environment, and defaults.
func loadConfig() error {
	viper.Reset()
	config.Init()

	cfg, err := config.Load(configPath)
	if err != nil {
		return errors.NewConfigError(errors.Mark(err, errors.ErrInvalidConfig))
	}
	loadedConfig = cfg
	slog.Debug("configuration loaded", "file", config.Used(), "content_directory", cfg.ContentDirectory)
	return nil
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(c *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"),
			"Pass either -q or -v")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("FMCHECK_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(c.ErrOrStderr(), opts)
	case logging.FormatText:
		primaryHandler = logging.NewHandler(c.ErrOrStderr(), opts)
	default:
		return errors.NewUserError(errors.Newf("invalid log format %q", logFormat),
			"Valid log formats: text, json")
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(errors.Wrap(err, "opening log file"), "Check the --log-file path")
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

	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
