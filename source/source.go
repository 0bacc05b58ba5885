// Package source decodes JSON and YAML documents into the loosely typed
// values accepted by coerce schemas.
//
// Objects decode to map[string]any and arrays to []any. JSON numbers are
// kept as json.Number so that precision survives until a Number schema
// converts them. An empty document decodes to coerce.Undefined.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/coerce"
)

// Format identifies a document encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	}
	return "unknown"
}

// ErrTrailingData reports a JSON document followed by more values.
var ErrTrailingData = errors.New("source: trailing data after JSON value")

// FormatFor picks the format from a file extension. Anything that is not
// .yaml or .yml is treated as JSON.
func FormatFor(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// ParseFormat maps "json", "yaml" or "yml" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return FormatJSON, fmt.Errorf("source: unknown format %q", s)
}

// Decode reads a whole document from r.
func Decode(r io.Reader, f Format) (any, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("source: read: %w", err)
	}
	switch f {
	case FormatYAML:
		return YAML(b)
	default:
		return JSON(b)
	}
}

// ReadFile decodes the file at path, choosing the format by extension.
func ReadFile(path string) (any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if FormatFor(path) == FormatYAML {
		return YAML(b)
	}
	return JSON(b)
}

// JSON decodes a single JSON value.
func JSON(b []byte) (any, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return coerce.Undefined, nil
	}
	dec := gojson.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("source: json: %w", err)
	}
	if dec.More() {
		return nil, ErrTrailingData
	}
	return v, nil
}

// YAML decodes the first document of a YAML stream. Mapping keys that are
// not strings are rendered with fmt.Sprint.
func YAML(b []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("source: yaml: %w", err)
	}
	if v == nil && len(bytes.TrimSpace(b)) == 0 {
		return coerce.Undefined, nil
	}
	return normalize(v), nil
}

func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalize(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				ks = fmt.Sprint(k)
			}
			out[ks] = normalize(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = normalize(t[i])
		}
		return arr
	default:
		return v
	}
}
