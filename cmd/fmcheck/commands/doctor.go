package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/fmcheck/internal/doctor"
	"github.com/thoreinstein/fmcheck/internal/errors"
)

var (
	doctorJSON    bool
	doctorAll bool
)

// errDoctorErrors is returned when a check reports an error.
var errDoctorErrors = errors.New("doctor found errors")

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON (ignores --all)")
	doctorCmd.Flags().BoolVar(&doctorAll, "all", false,
		"show every check, including passed ones")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor [content-dir]",
	Short: "Check configuration and schemas without validating content",
	Long: `Run diagnostic checks on the configuration and content tree.

Every schema.json under the content directory is parsed and compiled, and
Markdown files that a validation run would skip are listed. Frontmatter is
not read.

Exit codes:
  0  no errors (warnings and info are allowed)
  1  at least one check reported an error`,
	Example: `  fmcheck doctor
  fmcheck doctor docs --json`,
	Args: userArgs(cobra.MaximumNArgs(1)),
	RunE: runDoctor,
}

func runDoctor(c *cobra.Command, args []string) error {
	root := loadedConfig.ContentDirectory
	if len(args) == 1 {
		root = args[0]
	}

	runner := doctor.NewRunner()
	runner.AddCheck(&doctor.ConfigCheck{Config: loadedConfig})

	checks, err := doctor.TreeChecks(contentFs, root)
	if err != nil {
		return errors.NewSystemError(err, "")
	}
	runner.AddCheck(checks...)

	report := runner.Run()

	out := c.OutOrStdout()
	if doctorJSON {
		if err := outputDoctorJSON(out, report); err != nil {
			return err
		}
	} else {
		outputDoctorText(out, report, doctorAll)
	}

	if report.HasErrors() {
		return &errors.ExitError{Err: errDoctorErrors, Code: errors.ExitUser, Reported: true}
	}
	return nil
}

func outputDoctorJSON(w io.Writer, report *doctor.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return errors.Wrap(err, "encoding JSON")
	}
	return nil
}

func outputDoctorText(w io.Writer, report *doctor.Report, showAll bool) {
	hasOutput := false
	for _, result := range report.Results {
		problem := result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning
		if !showAll && !problem {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)
		if dirs, ok := result.Details["directories"].([]string); ok && showAll {
			for _, d := range dirs {
				fmt.Fprintf(w, "    %s\n", d)
			}
		}
		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return color.GreenString("✓")
	case doctor.SeverityInfo:
		return color.CyanString("ℹ")
	case doctor.SeverityWarning:
		return color.YellowString("⚠")
	case doctor.SeverityError:
		return color.RedString("✗")
	default:
		return "?"
	}
}
