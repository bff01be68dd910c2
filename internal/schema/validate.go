package schema

import (
	"bytes"
	"io"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/thoreinstein/fmcheck/internal/errors"
	"github.com/thoreinstein/fmcheck/internal/validator"
	"github.com/thoreinstein/fmcheck/pkg/frontmatter"
)

// errExternalRef is returned for $ref targets outside the schema file.
var errExternalRef = errors.New("external schema references are not supported")

type compiled struct {
	schema *jsonschema.Schema
	err    error
}

// Compile builds the schema, auto-detecting the draft from $schema and
// defaulting to the latest draft. The result, including a failure, is
// cached on the descriptor.
func (d *Descriptor) Compile() (*jsonschema.Schema, error) {
	if d.compiled != nil {
		return d.compiled.schema, d.compiled.err
	}

	s, err := compile(d.Path, d.Raw)
	if err != nil {
		err = &CompileError{Path: d.Path, Err: err}
	}
	d.compiled = &compiled{schema: s, err: err}
	return s, err
}

func compile(path string, raw []byte) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	compiler.LoadURL = func(url string) (io.ReadCloser, error) {
		return nil, errors.Wrapf(errExternalRef, "%s", url)
	}

	if err := compiler.AddResource(path, bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return compiler.Compile(path)
}

// Validate checks rec against the schema in d. A failed check is not an
// error: the returned result carries one issue per violated constraint.
// Errors are reserved for schemas that cannot be compiled or applied.
func Validate(d *Descriptor, rec frontmatter.Record) (*validator.Result, error) {
	s, err := d.Compile()
	if err != nil {
		return nil, err
	}

	result := &validator.Result{Schema: d.Path}

	// The engine only accepts plain JSON values
	var doc any = map[string]any(rec)
	if rec == nil {
		doc = map[string]any{}
	}

	err = s.Validate(doc)
	if err == nil {
		return result, nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, errors.Wrapf(err, "applying schema %s", d.Path)
	}

	for _, leaf := range leafCauses(verr) {
		result.Issues = append(result.Issues, validator.Issue{
			Severity: validator.SeverityError,
			Field:    leaf.InstanceLocation,
			Message:  strings.TrimSpace(leaf.Message),
			Keyword:  leaf.KeywordLocation,
		})
	}
	return result, nil
}

// leafCauses flattens the cause tree depth-first, keeping engine order.
func leafCauses(err *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if err == nil {
		return nil
	}
	if len(err.Causes) == 0 {
		return []*jsonschema.ValidationError{err}
	}
	var leaves []*jsonschema.ValidationError
	for _, cause := range err.Causes {
		leaves = append(leaves, leafCauses(cause)...)
	}
	return leaves
}
