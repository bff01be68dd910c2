// Package main is the entry point for the fmcheck CLI.
package main

import (
	"os"

	"github.com/thoreinstein/fmcheck/cmd/fmcheck/commands"
	"github.com/thoreinstein/fmcheck/internal/errors"
	"github.com/thoreinstein/fmcheck/internal/validator"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	var exitErr *errors.ExitError
	if !errors.As(err, &exitErr) || !exitErr.Reported {
		validator.NewReporter(os.Stderr, validator.FormatText).Fatal(err)
	}
	os.Exit(errors.CodeFor(err))
}
