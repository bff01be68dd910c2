// Package walker discovers Markdown files under a content root.
package walker

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/thoreinstein/fmcheck/internal/errors"
)

// ErrDirectoryNotFound is returned when the walk root does not exist or is
// not a directory.
var ErrDirectoryNotFound = errors.ErrDirectoryNotFound

// markdownExts lists the recognized extensions, lower-cased.
var markdownExts = map[string]struct{}{
	".md":  {},
	".mdx": {},
}

// IsMarkdown reports whether path has a .md or .mdx extension, ignoring case.
func IsMarkdown(path string) bool {
	_, ok := markdownExts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// CheckRoot verifies that root exists and is a directory.
func CheckRoot(fsys afero.Fs, root string) error {
	info, err := fsys.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrDirectoryNotFound, "%s", root)
		}
		return errors.Wrapf(err, "checking content directory %s", root)
	}
	if !info.IsDir() {
		return errors.Wrapf(ErrDirectoryNotFound, "%s is not a directory", root)
	}
	return nil
}

// Walk returns every Markdown file under root in lexical traversal order.
// Every subdirectory is descended. A symlinked root is walked through its
// target; symlinked directories below the root are not followed.
func Walk(fsys afero.Fs, root string) ([]string, error) {
	return Find(fsys, root, IsMarkdown)
}

// Find returns every regular file under root whose path satisfies match,
// in lexical traversal order. Symlinks count when they resolve to a regular
// file; a dangling link with a matching name is an error.
func Find(fsys afero.Fs, root string, match func(path string) bool) ([]string, error) {
	if err := CheckRoot(fsys, root); err != nil {
		return nil, err
	}

	var files []string
	err := afero.Walk(fsys, walkRoot(fsys, root), func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return errors.Wrapf(err, "walking %s", path)
		}
		if info.IsDir() || !match(path) {
			return nil
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			target, err := fsys.Stat(path)
			if err != nil {
				return errors.Wrapf(err, "resolving symlink %s", path)
			}
			info = target
		}
		if info.Mode().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// walkRoot returns root with a trailing separator when root is a symlink,
// so that Lstat resolves it and the walk descends into the target.
func walkRoot(fsys afero.Fs, root string) string {
	lstater, ok := fsys.(afero.Lstater)
	if !ok {
		return root
	}
	info, lstatCalled, err := lstater.LstatIfPossible(root)
	if err != nil || !lstatCalled || info.Mode()&fs.ModeSymlink == 0 {
		return root
	}
	return root + string(filepath.Separator)
}
