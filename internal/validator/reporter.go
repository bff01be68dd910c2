package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/thoreinstein/fmcheck/internal/errors"
)

// Format specifies the output format for validation reports.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces one JSON object per event.
	FormatJSON Format = "json"
	// FormatGitHub produces text output plus GitHub Actions workflow
	// commands so failures annotate the changed files.
	FormatGitHub Format = "github"
)

// Formats lists the supported output formats.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatGitHub}
}

// ValidFormat reports whether f names a supported format.
func ValidFormat(f string) bool {
	for _, known := range Formats() {
		if Format(f) == known {
			return true
		}
	}
	return false
}

// Reporter formats and writes the progress of a validation run.
// Write failures are remembered and returned by Err.
type Reporter struct {
	out    io.Writer
	format Format
	err    error
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
	}
}

// Err returns the first write error encountered, if any.
func (r *Reporter) Err() error {
	return r.err
}

// event is the NDJSON record written in FormatJSON.
type event struct {
	Event   string   `json:"event"`
	Path    string   `json:"path,omitempty"`
	Dir     string   `json:"dir,omitempty"`
	Schema  string   `json:"schema,omitempty"`
	Issues  []Issue  `json:"issues,omitempty"`
	Summary *Summary `json:"summary,omitempty"`
	Message string   `json:"message,omitempty"`
}

// ScanStarted announces the content root being scanned.
func (r *Reporter) ScanStarted(root string) {
	if r.format == FormatJSON {
		r.emit(event{Event: "scan", Path: root})
		return
	}
	r.printf("Scanning content in: %s\n", root)
}

// NoFiles reports that root holds no Markdown files.
func (r *Reporter) NoFiles(root string) {
	if r.format == FormatJSON {
		r.emit(event{Event: "empty", Path: root})
		return
	}
	r.printf("No Markdown files found in %s.\n", root)
}

// SchemaMissing reports that file was skipped because dir has no schema.
func (r *Reporter) SchemaMissing(dir, file string) {
	msg := fmt.Sprintf("No schema found in %s. Skipping validation for %s.", dir, file)
	switch r.format {
	case FormatJSON:
		r.emit(event{Event: "skip", Path: file, Dir: dir})
	case FormatGitHub:
		r.printf("%s\n", color.YellowString(msg))
		r.command("notice", file, "", msg)
	default:
		r.printf("%s\n", color.YellowString(msg))
	}
}

// FilePassed reports that file satisfied its schema.
func (r *Reporter) FilePassed(file string) {
	if r.format == FormatJSON {
		r.emit(event{Event: "pass", Path: file})
		return
	}
	r.printf("%s\n", color.GreenString("✓ Validation passed for file %s", file))
}

// FileFailed reports the violations that stopped the run.
func (r *Reporter) FileFailed(result *Result) {
	r.fileIssues("fail", result, color.FgRed,
		color.RedString("✗ Schema validation error in file %s:", result.File))
}

// FileWarned reports violations that were downgraded to warnings.
func (r *Reporter) FileWarned(result *Result) {
	r.fileIssues("warn", result, color.FgYellow,
		color.YellowString("! Schema validation warning in file %s:", result.File))
}

func (r *Reporter) fileIssues(name string, result *Result, c color.Attribute, header string) {
	if result == nil {
		return
	}
	if r.format == FormatJSON {
		r.emit(event{Event: name, Path: result.File, Schema: result.Schema, Issues: result.Issues})
		return
	}

	r.printf("%s\n", header)
	for _, issue := range result.Issues {
		r.printIssue(issue, c)
	}

	if r.format == FormatGitHub {
		level := "error"
		if name == "warn" {
			level = "warning"
		}
		for _, issue := range result.Issues {
			r.command(level, result.File, "Frontmatter validation", issue.DisplayField()+": "+issue.Message)
		}
	}
}

// Finished reports the end of a successful run.
func (r *Reporter) Finished(s Summary) {
	if r.format == FormatJSON {
		r.emit(event{Event: "done", Summary: &s})
		return
	}

	parts := []string{fmt.Sprintf("%d passed", s.Passed)}
	if s.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", s.Skipped))
	}
	if s.Warned > 0 {
		parts = append(parts, color.YellowString("%d with warnings", s.Warned))
	}

	msg := "All files validated successfully."
	if s.Warned > 0 {
		msg = "Validation finished with warnings."
	}
	r.printf("%s (%d file(s): %s)\n", msg, s.Files, strings.Join(parts, ", "))
}

// Fatal reports an error that aborted the run.
func (r *Reporter) Fatal(err error) {
	if err == nil {
		return
	}

	suggestion := ""
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		suggestion = exitErr.Suggestion
	}

	switch r.format {
	case FormatJSON:
		r.emit(event{Event: "error", Message: err.Error()})
	case FormatGitHub:
		r.printf("%s %s\n", color.New(color.FgRed, color.Bold).Sprint("Error:"), err.Error())
		r.command("error", "", "", err.Error())
	default:
		r.printf("%s %s\n", color.New(color.FgRed, color.Bold).Sprint("Error:"), err.Error())
	}
	if suggestion != "" && r.format != FormatJSON {
		r.printf("  %s\n", suggestion)
	}
}

func (r *Reporter) printIssue(i Issue, c color.Attribute) {
	printer := color.New(c).SprintFunc()

	// Format:  • field: message (keyword)
	var sb strings.Builder
	sb.WriteString("  • ")
	sb.WriteString(printer(i.DisplayField()))
	sb.WriteString(": ")
	sb.WriteString(i.Message)
	if i.Keyword != "" {
		sb.WriteString(" ")
		sb.WriteString(color.New(color.FgHiBlack).Sprintf("(%s)", i.Keyword))
	}

	r.printf("%s\n", sb.String())
}

// command writes a GitHub Actions workflow command, e.g.
// ::error file=a/post.md,title=Frontmatter validation::/title: is required
func (r *Reporter) command(level, file, title, msg string) {
	var props []string
	if file != "" {
		props = append(props, "file="+escapeProperty(file))
	}
	if title != "" {
		props = append(props, "title="+escapeProperty(title))
	}

	line := "::" + level
	if len(props) > 0 {
		line += " " + strings.Join(props, ",")
	}
	r.printf("%s::%s\n", line, escapeData(msg))
}

func escapeData(s string) string {
	return strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A").Replace(s)
}

func escapeProperty(s string) string {
	return strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C").Replace(s)
}

func (r *Reporter) emit(e event) {
	if r.err != nil {
		return
	}
	if err := json.NewEncoder(r.out).Encode(e); err != nil {
		r.err = errors.Wrap(err, "encoding JSON report")
	}
}

func (r *Reporter) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	if _, err := fmt.Fprintf(r.out, format, args...); err != nil {
		r.err = errors.Wrap(err, "writing report")
	}
}
