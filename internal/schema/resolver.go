// Package schema locates, compiles, and applies the per-directory JSON
// Schema that governs Markdown frontmatter.
package schema

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/thoreinstein/fmcheck/internal/errors"
	"github.com/thoreinstein/fmcheck/pkg/fileutil"
)

// FileName is the schema file looked up next to each Markdown file.
const FileName = "schema.json"

// Descriptor is a schema.json document loaded for one directory.
type Descriptor struct {
	// Path is the location of the schema file.
	Path string
	// Raw is the file content as read.
	Raw []byte
	// Doc is the decoded JSON document.
	Doc any

	compiled *compiled
}

type entry struct {
	desc *Descriptor
	err  error
}

// Resolver finds the schema for a Markdown file. Lookups are cached by
// directory for the lifetime of the Resolver, so each schema.json is read
// at most once per run.
type Resolver struct {
	fs    afero.Fs
	cache map[string]entry
}

// NewResolver creates a Resolver reading from fsys.
func NewResolver(fsys afero.Fs) *Resolver {
	return &Resolver{
		fs:    fsys,
		cache: make(map[string]entry),
	}
}

// Resolve returns the descriptor for the schema.json in file's own
// directory. It returns (nil, nil) when the directory has no schema; parent
// and sibling directories are never consulted.
func (r *Resolver) Resolve(file string) (*Descriptor, error) {
	return r.ResolveDir(filepath.Dir(file))
}

// ResolveDir returns the descriptor for dir/schema.json, or (nil, nil) when
// dir has none.
func (r *Resolver) ResolveDir(dir string) (*Descriptor, error) {
	if e, ok := r.cache[dir]; ok {
		return e.desc, e.err
	}

	desc, err := r.load(filepath.Join(dir, FileName))
	r.cache[dir] = entry{desc: desc, err: err}
	return desc, err
}

func (r *Resolver) load(path string) (*Descriptor, error) {
	info, err := r.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "checking schema %s", path)
	}
	if info.IsDir() {
		return nil, nil
	}

	raw, err := fileutil.ReadFileWithLimit(r.fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading schema %s", path)
	}

	doc, err := decodeJSON(raw)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return &Descriptor{Path: path, Raw: raw, Doc: doc}, nil
}

// decodeJSON decodes exactly one JSON value, keeping numbers exact.
func decodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, errors.New("empty document")
		}
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level value")
	}
	return doc, nil
}
