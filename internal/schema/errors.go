package schema

import (
	"fmt"

	"github.com/thoreinstein/fmcheck/internal/errors"
)

// ParseError reports a schema.json that is not valid JSON.
type ParseError struct {
	Path string // Path to the schema file
	Err  error  // Underlying decode error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse JSON schema at %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is matches errors.ErrSchemaParse.
func (e *ParseError) Is(target error) bool {
	return target == errors.ErrSchemaParse
}

// CompileError reports a schema.json that is valid JSON but not a usable
// JSON Schema.
type CompileError struct {
	Path string
	Err  error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile JSON schema at %s: %v", e.Path, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Is matches errors.ErrSchemaCompile.
func (e *CompileError) Is(target error) bool {
	return target == errors.ErrSchemaCompile
}
