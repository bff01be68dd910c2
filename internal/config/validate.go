package config

import (
	"strings"

	"github.com/thoreinstein/fmcheck/internal/errors"
	"github.com/thoreinstein/fmcheck/internal/runner"
	"github.com/thoreinstein/fmcheck/internal/validator"
)

// Validation errors for configuration fields. All of them match
// errors.ErrInvalidConfig.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.Mark(errors.New("version must be >= 1"), errors.ErrInvalidConfig)

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.Mark(errors.New("invalid path"), errors.ErrInvalidConfig)

	// ErrInvalidValue indicates a value outside the allowed set.
	ErrInvalidValue = errors.Mark(errors.New("invalid value"), errors.ErrInvalidConfig)
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.Mark(errors.New("config is nil"), errors.ErrInvalidConfig)}
	}

	var errs []error

	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}

	if err := validatePath(cfg.ContentDirectory); err != nil {
		errs = append(errs, &FieldError{Field: "content_directory", Value: cfg.ContentDirectory, Err: err})
	}

	if !validator.ValidFormat(cfg.Format) {
		errs = append(errs, &FieldError{Field: "format", Value: cfg.Format, Err: ErrInvalidValue,
			Allowed: formatNames()})
	}

	if !runner.ValidMode(cfg.Mode) {
		errs = append(errs, &FieldError{Field: "mode", Value: cfg.Mode, Err: ErrInvalidValue,
			Allowed: []string{string(runner.ModeEnforce), string(runner.ModeWarn)}})
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	if path == "" || strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}
	return nil
}

func formatNames() []string {
	var names []string
	for _, f := range validator.Formats() {
		names = append(names, string(f))
	}
	return names
}

// FieldError represents an invalid value for one configuration key.
type FieldError struct {
	Field   string
	Value   string
	Allowed []string
	Err     error
}

func (e *FieldError) Error() string {
	value := e.Value
	if value == "" {
		value = "(empty)"
	}
	msg := e.Field + ": " + e.Err.Error() + ": " + value
	if len(e.Allowed) > 0 {
		msg += " (allowed: " + strings.Join(e.Allowed, ", ") + ")"
	}
	return msg
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
