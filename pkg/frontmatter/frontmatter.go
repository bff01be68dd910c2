// Package frontmatter extracts the leading metadata block of Markdown files
// as a JSON-compatible record.
package frontmatter

import (
	"bufio"
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	adrg "github.com/adrg/frontmatter"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/fmcheck/internal/errors"
	"github.com/thoreinstein/fmcheck/pkg/fileutil"
)

// ErrInvalidFrontmatter is returned when a header is present but cannot be
// decoded into a mapping.
var ErrInvalidFrontmatter = errors.ErrInvalidFrontmatter

// DecodeError reports a frontmatter header that is present but cannot be
// decoded into a record.
type DecodeError struct {
	Msg string // What failed
	Err error  // Underlying decoder error, if any
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is matches ErrInvalidFrontmatter.
func (e *DecodeError) Is(target error) bool {
	return target == ErrInvalidFrontmatter
}

var bom = []byte("\ufeff")

// Record is the key-value mapping of a frontmatter block. Values are limited
// to the JSON data model: map[string]any, []any, string, bool, nil and
// json.Number.
type Record map[string]any

// Formats returns the delimiter formats recognized by Parse, in order of
// precedence: YAML between "---" lines, then TOML between "+++" lines.
func Formats() []*adrg.Format {
	return []*adrg.Format{
		adrg.NewFormat("---", "---", unmarshalYAML),
		adrg.NewFormat("+++", "+++", unmarshalTOML),
	}
}

// Parse extracts the frontmatter record and body content from a reader.
// If no frontmatter is present, it returns an empty record and the full
// content as body. A leading UTF-8 byte order mark is skipped.
func Parse(r io.Reader) (Record, []byte, error) {
	br := bufio.NewReader(r)
	if head, _ := br.Peek(len(bom)); bytes.Equal(head, bom) {
		_, _ = br.Discard(len(bom))
	}

	var raw map[string]any
	body, err := adrg.Parse(br, &raw, Formats()...)
	if err != nil {
		if errors.Is(err, ErrInvalidFrontmatter) {
			return nil, nil, err
		}
		return nil, nil, &DecodeError{Msg: "decoding frontmatter", Err: err}
	}

	rec := make(Record, len(raw))
	for key, value := range raw {
		conv, err := toJSONValue(value)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "field %q", key)
		}
		rec[key] = conv
	}
	return rec, body, nil
}

// ParseBytes is Parse over an in-memory document.
func ParseBytes(data []byte) (Record, []byte, error) {
	return Parse(bytes.NewReader(data))
}

// ParseFile reads path from fsys and parses its frontmatter.
func ParseFile(fsys afero.Fs, path string) (Record, []byte, error) {
	data, err := fileutil.ReadFileWithLimit(fsys, path)
	if err != nil {
		return nil, nil, err
	}
	return ParseBytes(data)
}

func unmarshalYAML(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return &DecodeError{Msg: "invalid YAML", Err: err}
	}
	if doc.Kind == 0 {
		return nil
	}
	keepTimestamps(&doc)
	if err := doc.Decode(v); err != nil {
		return &DecodeError{Msg: "invalid YAML", Err: err}
	}
	return nil
}

// keepTimestamps retags implicit and explicit timestamp scalars as strings
// so dates keep their source text ("2024-01-02") instead of becoming
// time.Time values.
func keepTimestamps(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!timestamp" {
		n.Tag = "!!str"
	}
	for _, c := range n.Content {
		keepTimestamps(c)
	}
}

func unmarshalTOML(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := toml.Unmarshal(data, v); err != nil {
		return &DecodeError{Msg: "invalid TOML", Err: err}
	}
	return nil
}

// toJSONValue converts decoder output into the JSON data model understood
// by the schema engine.
func toJSONValue(v any) (any, error) {
	switch val := v.(type) {
	case nil, bool, string, json.Number:
		return val, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			conv, err := toJSONValue(item)
			if err != nil {
				return nil, err
			}
			out[k] = conv
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			conv, err := toJSONValue(item)
			if err != nil {
				return nil, err
			}
			out[fmt.Sprint(k)] = conv
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			conv, err := toJSONValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	case int:
		return json.Number(strconv.FormatInt(int64(val), 10)), nil
	case int8:
		return json.Number(strconv.FormatInt(int64(val), 10)), nil
	case int16:
		return json.Number(strconv.FormatInt(int64(val), 10)), nil
	case int32:
		return json.Number(strconv.FormatInt(int64(val), 10)), nil
	case int64:
		return json.Number(strconv.FormatInt(val, 10)), nil
	case uint:
		return json.Number(strconv.FormatUint(uint64(val), 10)), nil
	case uint8:
		return json.Number(strconv.FormatUint(uint64(val), 10)), nil
	case uint16:
		return json.Number(strconv.FormatUint(uint64(val), 10)), nil
	case uint32:
		return json.Number(strconv.FormatUint(uint64(val), 10)), nil
	case uint64:
		return json.Number(strconv.FormatUint(val, 10)), nil
	case float32:
		return floatNumber(float64(val))
	case float64:
		return floatNumber(val)
	case time.Time:
		return val.Format(time.RFC3339Nano), nil
	case encoding.TextMarshaler:
		text, err := val.MarshalText()
		if err != nil {
			return nil, &DecodeError{Msg: "encoding value", Err: err}
		}
		return string(text), nil
	default:
		return nil, &DecodeError{Msg: fmt.Sprintf("unsupported value type %T", v)}
	}
}

func floatNumber(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, &DecodeError{Msg: fmt.Sprintf("non-finite number %v", f)}
	}
	return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
}
