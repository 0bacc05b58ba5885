package jsonschema

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/coerce"
	"github.com/reoring/coerce/codec"
)

// ErrNilSchema is returned when Render meets a nil node.
var ErrNilSchema = errors.New("jsonschema: nil schema")

// Render converts a coerce schema tree into a draft-07 document.
func Render(s *coerce.Schema) (*Schema, error) {
	out, err := render(s)
	if err != nil {
		return nil, err
	}
	out.SchemaURI = Draft07
	return out, nil
}

// Marshal renders s and encodes it as indented JSON.
func Marshal(s *coerce.Schema) ([]byte, error) {
	out, err := Render(s)
	if err != nil {
		return nil, err
	}
	return gojson.MarshalIndent(out, "", "  ")
}

func render(s *coerce.Schema) (*Schema, error) {
	if s == nil {
		return nil, ErrNilSchema
	}
	out := &Schema{Description: describe(s)}
	if def, ok := staticDefault(s); ok {
		out.Default = def
	}

	switch s.Kind() {
	case coerce.KindString:
		out.Type = "string"
	case coerce.KindNumber:
		out.Type = "number"
	case coerce.KindBoolean:
		out.Type = "boolean"
	case coerce.KindDate:
		out.Type = "string"
		out.Format = "date-time"
	case coerce.KindAny:
	case coerce.KindConstant:
		out.Type = constantType(s.Constant())
		out.Const = jsonValue(s.Constant())
	case coerce.KindEnumeration:
		out.Type = "string"
		for _, m := range s.Enum() {
			out.Enum = append(out.Enum, m)
		}
	case coerce.KindObject, coerce.KindLenientObject:
		out.Type = "object"
		out.Properties = make(map[string]*Schema, len(s.Fields()))
		for _, f := range s.Fields() {
			child, err := render(f.Schema)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.Name, err)
			}
			out.Properties[f.Name] = child
			if f.Schema.IsRequired() || f.Schema.HasDefault() {
				out.Required = append(out.Required, f.Name)
			}
		}
		if s.Kind() == coerce.KindObject {
			out.AdditionalProperties = false
		}
	case coerce.KindDynamicObject:
		out.Type = "object"
		child, err := render(s.Elem())
		if err != nil {
			return nil, fmt.Errorf("*: %w", err)
		}
		out.AdditionalProperties = child
	case coerce.KindArray:
		out.Type = "array"
		child, err := render(s.Elem())
		if err != nil {
			return nil, fmt.Errorf("[]: %w", err)
		}
		out.Items = child
	case coerce.KindTuple:
		out.Type = "array"
		items := s.Items()
		rendered := make([]*Schema, len(items))
		for i, it := range items {
			child, err := render(it)
			if err != nil {
				return nil, fmt.Errorf("%d: %w", i, err)
			}
			if !it.IsRequired() && !it.HasDefault() {
				// absent positions become null in the model
				child = &Schema{OneOf: []*Schema{child, {Type: "null"}}}
			}
			rendered[i] = child
		}
		n := len(items)
		out.Items = rendered
		out.MinItems, out.MaxItems = &n, &n
	case coerce.KindOrSet:
		for i, m := range s.Members() {
			child, err := render(m)
			if err != nil {
				return nil, fmt.Errorf("oneOf[%d]: %w", i, err)
			}
			out.OneOf = append(out.OneOf, child)
		}
		out.Description = s.Description()
	default:
		return nil, fmt.Errorf("jsonschema: unsupported kind %s", s.Kind())
	}
	return out, nil
}

// describe returns the user description or a generated sentence such as
// "A required string that defaults to x.".
func describe(s *coerce.Schema) string {
	if d := s.Description(); d != "" {
		return d
	}
	var b strings.Builder
	b.WriteString("A ")
	if s.IsRequired() {
		b.WriteString("required ")
	} else {
		b.WriteString("optional ")
	}
	b.WriteString(s.Type().String())
	switch {
	case s.IsDefaultGenerated():
		// generators are never invoked while rendering
		b.WriteString(" that defaults to a run-time evaluated value")
	case s.HasDefault():
		fmt.Fprintf(&b, " that defaults to %s", display(resolvedDefault(s)))
	}
	b.WriteString(".")
	return b.String()
}

// resolvedDefault runs a static default through the schema so the rendered
// value is the coerced one.
func resolvedDefault(s *coerce.Schema) any {
	if v, err := s.Validate(coerce.Undefined); err == nil {
		return v
	}
	return s.DefaultValue(nil)
}

func staticDefault(s *coerce.Schema) (any, bool) {
	if !s.HasDefault() || s.IsDefaultGenerated() {
		return nil, false
	}
	v := resolvedDefault(s)
	if !coerce.IsPresent(v) || v == nil {
		return nil, false
	}
	return jsonValue(v), true
}

func constantType(v any) string {
	switch coerce.TypeOf(v) {
	case coerce.TypeString, coerce.TypeDate:
		return "string"
	case coerce.TypeNumber:
		return "number"
	case coerce.TypeBigInt:
		return "integer"
	case coerce.TypeBoolean:
		return "boolean"
	case coerce.TypeObject:
		return "object"
	case coerce.TypeArray:
		return "array"
	case coerce.TypeNull:
		return "null"
	}
	return ""
}

// jsonValue maps model values onto what encodes as plain JSON.
func jsonValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return codec.FormatISO(t)
	case *big.Int:
		return gojson.Number(t.String())
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = jsonValue(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = jsonValue(t[i])
		}
		return out
	}
	return v
}

func display(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return codec.FormatNumber(t)
	case time.Time:
		return codec.FormatISO(t)
	case []any:
		parts := make([]string, len(t))
		for i := range t {
			parts[i] = display(t[i])
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case nil:
		return "null"
	}
	if b, err := gojson.Marshal(jsonValue(v)); err == nil {
		return string(b)
	}
	return fmt.Sprint(v)
}
