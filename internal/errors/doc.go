// Package errors provides error handling conventions for the fmcheck CLI.
//
// This package defines sentinel errors for the failure conditions of a
// validation run, an ExitError type for CLI exit code handling, and exit
// code constants following standard Unix conventions. Wrapping helpers are
// re-exported from github.com/cockroachdb/errors.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [Is]:
//
//	if errors.Is(err, fmerrors.ErrSchemaParse) {
//	    // schema.json is not valid JSON
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): run passed, or there was nothing to validate
//   - ExitUser (1): content, schema, or configuration problem
//   - ExitSystem (2): I/O or other system failure
//
// [CodeFor] maps any error to one of these codes. Only the main package
// calls os.Exit.
package errors
