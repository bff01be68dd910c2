// Package runner drives a frontmatter validation run over a content tree.
package runner

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/thoreinstein/fmcheck/internal/errors"
	"github.com/thoreinstein/fmcheck/internal/logging"
	"github.com/thoreinstein/fmcheck/internal/schema"
	"github.com/thoreinstein/fmcheck/internal/validator"
	"github.com/thoreinstein/fmcheck/internal/walker"
	"github.com/thoreinstein/fmcheck/pkg/frontmatter"
)

// Observer receives progress notices during a run.
// validator.Reporter implements it.
type Observer interface {
	ScanStarted(root string)
	NoFiles(root string)
	SchemaMissing(dir, file string)
	FilePassed(file string)
	FileWarned(result *validator.Result)
	FileFailed(result *validator.Result)
	Finished(summary validator.Summary)
}

// Options configures a run.
type Options struct {
	// Mode selects enforce (default) or warn behavior.
	Mode Mode
	// Observer receives progress notices. Nil discards them.
	Observer Observer
	// Logger receives debug traces. Nil discards them.
	Logger *slog.Logger
}

// Outcome describes how a run ended.
type Outcome struct {
	State State
	// Files are the Markdown files discovered, in traversal order.
	Files []string
	validator.Summary
	// Failure is the result of the file that stopped the run, if any.
	Failure *validator.Result
}

// ValidationError is returned when a file's frontmatter violates its schema.
// It matches errors.ErrValidationFailed.
type ValidationError struct {
	Result *validator.Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for file %s (%d issue(s))", e.Result.File, len(e.Result.Issues))
}

// Is matches errors.ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == errors.ErrValidationFailed
}

// Run validates every Markdown file under root against the schema.json in
// its own directory. Files are processed one at a time in walk order and the
// first violation or fatal error ends the run (unless opts.Mode is warn,
// which only downgrades violations). The returned Outcome is never nil.
func Run(fsys afero.Fs, root string, opts Options) (*Outcome, error) {
	obs := opts.Observer
	if obs == nil {
		obs = discard{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewDiscard()
	}
	mode := opts.Mode
	if mode == "" {
		mode = ModeEnforce
	}

	out := &Outcome{State: StateStart}
	obs.ScanStarted(root)

	if err := walker.CheckRoot(fsys, root); err != nil {
		return out, err
	}

	out.State = StateScanning
	files, err := walker.Walk(fsys, root)
	if err != nil {
		return out, err
	}
	out.Files = files
	out.Summary.Files = len(files)
	logger.Debug("scan complete", "root", root, "files", len(files))

	if len(files) == 0 {
		out.State = StateNoFilesFound
		obs.NoFiles(root)
		return out, nil
	}

	out.State = StateValidating
	resolver := schema.NewResolver(fsys)
	for _, file := range files {
		result, err := validateFile(resolver, fsys, file, logger)
		if err != nil {
			return out, err
		}

		switch {
		case result == nil:
			out.Skipped++
			obs.SchemaMissing(filepath.Dir(file), file)
		case result.Passed():
			out.Passed++
			obs.FilePassed(file)
		case mode == ModeWarn:
			result.Downgrade()
			out.Warned++
			obs.FileWarned(result)
		default:
			out.State = StateValidationFailed
			out.Failure = result
			obs.FileFailed(result)
			return out, &ValidationError{Result: result}
		}
	}

	out.State = StateAllPassed
	obs.Finished(out.Summary)
	return out, nil
}

// validateFile returns nil when file has no schema.
func validateFile(resolver *schema.Resolver, fsys afero.Fs, file string, logger *slog.Logger) (*validator.Result, error) {
	desc, err := resolver.Resolve(file)
	if err != nil {
		return nil, err
	}
	if desc == nil {
		logger.Debug("no schema", "file", file)
		return nil, nil
	}

	// Compile before reading the file so a broken schema is reported
	// without touching its content.
	if _, err := desc.Compile(); err != nil {
		return nil, err
	}

	rec, _, err := frontmatter.ParseFile(fsys, file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading frontmatter of %s", file)
	}

	result, err := schema.Validate(desc, rec)
	if err != nil {
		return nil, err
	}
	result.File = file
	logger.Debug("validated", "file", file, "schema", desc.Path, "issues", len(result.Issues))
	return result, nil
}

type discard struct{}

func (discard) ScanStarted(string)           {}
func (discard) NoFiles(string)               {}
func (discard) SchemaMissing(string, string) {}
func (discard) FilePassed(string)            {}
func (discard) FileWarned(*validator.Result) {}
func (discard) FileFailed(*validator.Result) {}
func (discard) Finished(validator.Summary)   {}
