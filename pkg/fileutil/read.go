// Package fileutil provides bounded reads and atomic writes over an afero filesystem.
package fileutil

import (
	"io"

	"github.com/spf13/afero"

	"github.com/thoreinstein/fmcheck/internal/errors"
)

// MaxFileSize is the maximum file size we'll read (4MiB).
// Content and schema files larger than this are rejected rather than
// loaded into memory.
const MaxFileSize = 4 * 1024 * 1024

// ErrFileTooLarge indicates that a file exceeded MaxFileSize.
var ErrFileTooLarge = errors.Newf("file exceeds maximum size of %d bytes", MaxFileSize)

// ReadFileWithLimit reads a file from fsys up to MaxFileSize.
// It returns an error if the file is larger than the limit.
func ReadFileWithLimit(fsys afero.Fs, path string) ([]byte, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	// Fail fast when the size is already known to be too large
	if info, err := f.Stat(); err == nil && info.Size() > MaxFileSize {
		return nil, errors.Wrapf(ErrFileTooLarge, "%s", path)
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	if len(data) > MaxFileSize {
		return nil, errors.Wrapf(ErrFileTooLarge, "%s", path)
	}

	return data, nil
}
