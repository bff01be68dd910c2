package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error: invalid content, schema,
	// configuration, or flags.
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, permissions, etc.).
	ExitSystem = 2
)

// Sentinel errors for the validation run.
var (
	// ErrDirectoryNotFound indicates the content root does not exist or is
	// not a directory.
	ErrDirectoryNotFound = crdb.New("content directory not found")

	// ErrSchemaParse indicates a schema.json file is not valid JSON.
	ErrSchemaParse = crdb.New("schema is not valid JSON")

	// ErrSchemaCompile indicates a schema.json file is valid JSON but not a
	// usable JSON Schema.
	ErrSchemaCompile = crdb.New("schema failed to compile")

	// ErrInvalidFrontmatter indicates a frontmatter header is present but
	// cannot be decoded into a mapping.
	ErrInvalidFrontmatter = crdb.New("invalid frontmatter")

	// ErrValidationFailed indicates frontmatter did not satisfy its schema.
	ErrValidationFailed = crdb.New("validation failed")

	// ErrInvalidConfig indicates configuration validation failed.
	ErrInvalidConfig = crdb.New("invalid configuration")
)

// New, Newf, Wrap, Wrapf, Is and As are re-exported from cockroachdb/errors
// so callers need a single errors import.
var (
	New   = crdb.New
	Newf  = crdb.Newf
	Wrap  = crdb.Wrap
	Wrapf = crdb.Wrapf
	Is    = crdb.Is
	As    = crdb.As
	Mark  = crdb.Mark
)

// ExitError wraps an error with an exit code and optional suggestion for CLI applications.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string

	// Reported is set when the error has already been written to the
	// console, so the top-level handler only needs to exit.
	Reported bool
}

// NewExitError creates an ExitError with the given underlying error and exit code.
// If err is nil, the returned ExitError will have a nil Err field.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// NewConfigError creates an ExitError with ExitUser code and a standard suggestion.
func NewConfigError(err error) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: "Run: fmcheck config",
	}
}

// NewReportedError creates an ExitError for a failure that has already been
// written to the console. The exit code is derived with [CodeFor].
func NewReportedError(err error) *ExitError {
	return &ExitError{
		Err:      err,
		Code:     CodeFor(err),
		Reported: true,
	}
}

// CodeFor maps an error to a process exit code. Known content and
// configuration failures are user errors; anything else is a system error.
func CodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if crdb.As(err, &exitErr) {
		return exitErr.Code
	}
	for _, sentinel := range []error{
		ErrDirectoryNotFound,
		ErrSchemaParse,
		ErrSchemaCompile,
		ErrInvalidFrontmatter,
		ErrValidationFailed,
		ErrInvalidConfig,
	} {
		if crdb.Is(err, sentinel) {
			return ExitUser
		}
	}
	return ExitSystem
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}
