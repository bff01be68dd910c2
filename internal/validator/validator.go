package validator

import (
	"fmt"
	"strings"
)

// Severity represents the impact of a validation issue.
type Severity int

const (
	// SeverityError indicates a blocking validation failure.
	SeverityError Severity = iota
	// SeverityWarning indicates a violation reported without failing the run.
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name written by MarshalText.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// Issue is a single schema violation.
type Issue struct {
	// Severity indicates the impact of the issue.
	Severity Severity `json:"severity"`
	// Field is the JSON Pointer of the offending value; empty means the
	// frontmatter record itself.
	Field string `json:"field"`
	// Message is a human-readable description of the problem.
	Message string `json:"message"`
	// Keyword is the schema location of the failing keyword (optional).
	Keyword string `json:"keyword,omitempty"`
}

// DisplayField returns Field, or "(root)" for the record itself.
func (i Issue) DisplayField() string {
	if i.Field == "" {
		return "(root)"
	}
	return i.Field
}

// Error implements the error interface.
func (i Issue) Error() string {
	var sb strings.Builder
	sb.WriteString(i.Severity.String())
	sb.WriteString(": ")
	sb.WriteString(i.DisplayField())
	sb.WriteString(": ")
	sb.WriteString(i.Message)
	return sb.String()
}

// Result is the outcome of validating one file against its schema.
type Result struct {
	// File is the Markdown file that was validated.
	File string `json:"file"`
	// Schema is the schema.json the file was validated against.
	Schema string `json:"schema,omitempty"`
	// Issues are the violations in the order the schema engine reported them.
	Issues []Issue `json:"issues"`
}

// Passed reports whether the result holds no issues.
func (r *Result) Passed() bool {
	return r == nil || len(r.Issues) == 0
}

// HasErrors returns true if any issue has SeverityError.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// AddError adds an error issue to the result.
func (r *Result) AddError(field, message string) {
	r.Issues = append(r.Issues, Issue{
		Severity: SeverityError,
		Field:    field,
		Message:  message,
	})
}

// Downgrade turns every issue into a warning.
func (r *Result) Downgrade() {
	if r == nil {
		return
	}
	for i := range r.Issues {
		r.Issues[i].Severity = SeverityWarning
	}
}

// Summary holds the counts reported at the end of a run.
type Summary struct {
	Files   int `json:"files"`
	Passed  int `json:"passed"`
	Skipped int `json:"skipped"`
	Warned  int `json:"warned"`
}
