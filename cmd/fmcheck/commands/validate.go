package commands

import (
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/fmcheck/internal/config"
	"github.com/thoreinstein/fmcheck/internal/errors"
	"github.com/thoreinstein/fmcheck/internal/logging"
	"github.com/thoreinstein/fmcheck/internal/runner"
	"github.com/thoreinstein/fmcheck/internal/validator"
)

var (
	validateFormat string
	validateMode   string
)

// contentFs is the filesystem validated by the validate command.
var contentFs = afero.NewOsFs()

func init() {
	validateCmd.Flags().StringVar(&validateFormat, "format", "",
		"output format: text, json, github (default from config: text)")
	validateCmd.Flags().StringVar(&validateMode, "mode", "",
		"enforce stops at the first invalid file, warn reports and continues (default from config: enforce)")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [content-dir]",
	Short: "Validate frontmatter in a content directory",
	Long: `Validate the frontmatter of every .md and .mdx file under the content
directory against the schema.json in the file's own directory.

The content directory defaults to the content_directory setting ("content").
FMCHECK_CONTENT_DIRECTORY and the GitHub Action input INPUT_CONTENT_DIRECTORY
override the config file; a positional argument overrides both.

Exit codes:
  0  all files passed, were skipped, or no Markdown files were found
  1  a file failed validation, or the directory, a schema, or configuration
     is invalid
  2  an unexpected I/O failure`,
	Example: `  # Validate ./content
  fmcheck validate

  # Validate a different directory
  fmcheck validate site/src/content

  # Emit one JSON object per event
  fmcheck validate --format json

See Also: fmcheck config`,
	Args: userArgs(cobra.MaximumNArgs(1)),
	RunE: runValidate,
}

func runValidate(c *cobra.Command, args []string) error {
	cfg := *loadedConfig
	if len(args) == 1 {
		cfg.ContentDirectory = args[0]
	}
	if validateFormat != "" {
		cfg.Format = validateFormat
	}
	if validateMode != "" {
		cfg.Mode = validateMode
	}

	if errs := config.Validate(&cfg); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		err := errors.Mark(errors.Newf("%s", strings.Join(msgs, "; ")), errors.ErrInvalidConfig)
		return errors.NewConfigError(err)
	}

	format := validator.Format(cfg.Format)
	reporter := validator.NewReporter(c.OutOrStdout(), format)
	logger := logging.FromContext(c.Context())

	out, err := runner.Run(contentFs, cfg.ContentDirectory, runner.Options{
		Mode:     runner.Mode(cfg.Mode),
		Observer: reporter,
		Logger:   logger,
	})
	logger.Info("run finished", "state", out.State, "files", len(out.Files), "passed", out.Passed,
		"skipped", out.Skipped, "warned", out.Warned)

	if err != nil {
		if !errors.Is(err, errors.ErrValidationFailed) {
			reportFatal(c, format, reporter, err)
		}
		return errors.NewReportedError(err)
	}
	if werr := reporter.Err(); werr != nil {
		return errors.NewSystemError(werr, "")
	}
	return nil
}

// reportFatal renders err in the run's format. Text output goes to stderr;
// JSON and GitHub output stay on stdout so the event stream and workflow
// commands are complete.
func reportFatal(c *cobra.Command, format validator.Format, r *validator.Reporter, err error) {
	if format == validator.FormatText {
		r = validator.NewReporter(c.ErrOrStderr(), format)
	}
	r.Fatal(err)
}
