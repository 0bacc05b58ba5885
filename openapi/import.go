// Package openapi imports OpenAPI 3 schema objects into coerce schemas.
//
// The supported subset covers type/format/enum/default/nullable,
// properties/required/additionalProperties, items, string and number
// bounds, oneOf/anyOf (as OrSet) and allOf of objects. Unsupported keywords
// are reported through Diag and otherwise ignored.
package openapi

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/getkin/kin-openapi/openapi3"
	gojson "github.com/goccy/go-json"

	"github.com/reoring/coerce"
	"github.com/reoring/coerce/rules"
	"github.com/reoring/coerce/source"
)

var (
	ErrNilSchema     = errors.New("openapi: nil schema")
	ErrUnresolvedRef = errors.New("openapi: unresolved $ref")
	ErrCyclicRef     = errors.New("openapi: cyclic schema")
	ErrNotFound      = errors.New("openapi: component schema not found")
)

// Import converts a kin-openapi schema into a required coerce schema.
func Import(s *openapi3.Schema, opts Options) (*coerce.Schema, Diag, error) {
	d := &simpleDiag{}
	if s == nil {
		return nil, d, ErrNilSchema
	}
	im := &importer{opts: opts, diag: d, stack: map[*openapi3.Schema]bool{}}
	out, err := im.schema(s, "")
	return out, d, err
}

// ImportJSON decodes a JSON schema object and imports it. A Kubernetes CRD
// document or an object holding openAPIV3Schema is unwrapped first.
func ImportJSON(b []byte, opts Options) (*coerce.Schema, Diag, error) {
	doc, err := source.JSON(b)
	if err != nil {
		return nil, &simpleDiag{}, err
	}
	return importDecoded(doc, opts)
}

// ImportYAML is ImportJSON for YAML input.
func ImportYAML(b []byte, opts Options) (*coerce.Schema, Diag, error) {
	doc, err := source.YAML(b)
	if err != nil {
		return nil, &simpleDiag{}, err
	}
	return importDecoded(doc, opts)
}

// ImportFile reads a schema file, choosing the decoder by extension.
func ImportFile(path string, opts Options) (*coerce.Schema, Diag, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &simpleDiag{}, err
	}
	if source.FormatFor(path) == source.FormatYAML {
		return ImportYAML(b, opts)
	}
	return ImportJSON(b, opts)
}

// ImportDocument loads a full OpenAPI document (JSON or YAML), resolving
// $ref through the kin-openapi loader, and imports components.schemas[name].
func ImportDocument(data []byte, name string, opts Options) (*coerce.Schema, Diag, error) {
	doc, err := openapi3.NewLoader().LoadFromData(data)
	if err != nil {
		return nil, &simpleDiag{}, fmt.Errorf("openapi: load document: %w", err)
	}
	if doc.Components == nil {
		return nil, &simpleDiag{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	ref, ok := doc.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, &simpleDiag{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return Import(ref.Value, opts)
}

func importDecoded(doc any, opts Options) (*coerce.Schema, Diag, error) {
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, &simpleDiag{}, fmt.Errorf("openapi: schema document must be an object, got %s", coerce.TypeOf(doc))
	}
	if spec, ok := root["openAPIV3Schema"].(map[string]any); ok {
		root = spec
	} else if unwrapped := unwrapCRDSchema(root); unwrapped != nil {
		root = unwrapped
	}
	b, err := gojson.Marshal(root)
	if err != nil {
		return nil, &simpleDiag{}, fmt.Errorf("openapi: re-encode schema: %w", err)
	}
	var s openapi3.Schema
	if err := s.UnmarshalJSON(b); err != nil {
		return nil, &simpleDiag{}, fmt.Errorf("openapi: invalid schema: %w", err)
	}
	return Import(&s, opts)
}

// unwrapCRDSchema extracts spec.versions[].schema.openAPIV3Schema from a
// CustomResourceDefinition, preferring a served version.
func unwrapCRDSchema(root map[string]any) map[string]any {
	spec, ok := root["spec"].(map[string]any)
	if !ok {
		return nil
	}
	vers, _ := spec["versions"].([]any)
	var first map[string]any
	for _, v := range vers {
		vm, _ := v.(map[string]any)
		sch, _ := vm["schema"].(map[string]any)
		oas, ok := sch["openAPIV3Schema"].(map[string]any)
		if !ok {
			continue
		}
		if served, ok := vm["served"].(bool); !ok || served {
			return oas
		}
		if first == nil {
			first = oas
		}
	}
	return first
}

type importer struct {
	opts  Options
	diag  *simpleDiag
	stack map[*openapi3.Schema]bool
}

func (im *importer) ref(r *openapi3.SchemaRef, at string) (*coerce.Schema, error) {
	if r == nil {
		return coerce.Any(), nil
	}
	if r.Value == nil {
		if r.Ref != "" {
			return nil, fmt.Errorf("%w %q at %s", ErrUnresolvedRef, r.Ref, pointer(at))
		}
		return coerce.Any(), nil
	}
	return im.schema(r.Value, at)
}

// schema builds the node for s. The result is required; callers relax it
// for properties missing from the parent's required list.
func (im *importer) schema(s *openapi3.Schema, at string) (*coerce.Schema, error) {
	if im.stack[s] {
		return nil, fmt.Errorf("%w at %s", ErrCyclicRef, pointer(at))
	}
	im.stack[s] = true
	defer delete(im.stack, s)

	out, err := im.shape(s, at)
	if err != nil {
		return nil, err
	}
	if nullable(s) {
		// OrSet members never convert, so a nullable value must already have its declared type.
		out = coerce.OrSet(coerce.Constant(nil), out)
		im.diag.warnf("%s: nullable value is matched without conversion", pointer(at))
	}
	if s.Default != nil && im.opts.Defaults == DefaultApply {
		out = out.Default(s.Default)
	}
	if s.Description != "" {
		out = out.Describe(s.Description)
	}
	if s.Not != nil {
		im.diag.warnf("%s: not is ignored", pointer(at))
	}
	return out, nil
}

func (im *importer) shape(s *openapi3.Schema, at string) (*coerce.Schema, error) {
	switch {
	case len(s.AllOf) > 0:
		merged, err := im.mergeAllOf(s, at)
		if err != nil {
			return nil, err
		}
		return im.shape(merged, at)
	case len(s.OneOf) > 0:
		return im.union(s.OneOf, "oneOf", at)
	case len(s.AnyOf) > 0:
		return im.union(s.AnyOf, "anyOf", at)
	case len(s.Enum) > 0:
		return im.enum(s.Enum), nil
	}

	var concrete []string
	for _, t := range s.Type.Slice() {
		if t != typeNull {
			concrete = append(concrete, t)
		}
	}
	switch len(concrete) {
	case 0:
		switch {
		case len(s.Properties) > 0 || s.AdditionalProperties.Schema != nil:
			return im.object(s, at)
		case s.Items != nil:
			return im.array(s, at)
		}
		return coerce.Any(), nil
	case 1:
		return im.typed(concrete[0], s, at)
	}
	members := make([]*coerce.Schema, 0, len(concrete))
	for _, t := range concrete {
		m, err := im.typed(t, s, at)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return coerce.OrSet(members...), nil
}

func (im *importer) typed(t string, s *openapi3.Schema, at string) (*coerce.Schema, error) {
	switch t {
	case openapi3.TypeString:
		return im.str(s, at)
	case openapi3.TypeNumber:
		return bounds(coerce.Number(), s), nil
	case openapi3.TypeInteger:
		return bounds(coerce.Number().Integer(), s), nil
	case openapi3.TypeBoolean:
		return coerce.Boolean(), nil
	case openapi3.TypeArray:
		return im.array(s, at)
	case openapi3.TypeObject:
		return im.object(s, at)
	}
	im.diag.warnf("%s: unknown type %q treated as any", pointer(at), t)
	return coerce.Any(), nil
}

func (im *importer) str(s *openapi3.Schema, at string) (*coerce.Schema, error) {
	var out *coerce.Schema
	switch s.Format {
	case "date-time", "date":
		return coerce.Date(), nil
	case "uuid":
		out = coerce.String().UUID()
	case "", "byte", "binary", "password":
		out = coerce.String()
	default:
		im.diag.warnf("%s: format %q is not checked", pointer(at), s.Format)
		out = coerce.String()
	}
	if s.MinLength > 0 || s.MaxLength != nil {
		max := -1
		if s.MaxLength != nil {
			max = int(*s.MaxLength)
		}
		out = out.Length(int(s.MinLength), max)
	}
	if s.Pattern != "" {
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return nil, fmt.Errorf("openapi: %s: pattern: %w", pointer(at), err)
		}
		out = out.Regex(re)
	}
	return out, nil
}

func bounds(out *coerce.Schema, s *openapi3.Schema) *coerce.Schema {
	if s.Min != nil {
		out = out.Min(*s.Min)
	}
	if s.Max != nil {
		out = out.Max(*s.Max)
	}
	return out
}

func (im *importer) array(s *openapi3.Schema, at string) (*coerce.Schema, error) {
	elem, err := im.ref(s.Items, at+"/items")
	if err != nil {
		return nil, err
	}
	out := coerce.Array(elem)
	if s.MinItems > 0 || s.MaxItems != nil {
		max := -1
		if s.MaxItems != nil {
			max = int(*s.MaxItems)
		}
		out = out.Custom(rules.ItemCount(int(s.MinItems), max))
	}
	if s.UniqueItems {
		out = out.Custom(rules.Unique())
	}
	return out, nil
}

func (im *importer) object(s *openapi3.Schema, at string) (*coerce.Schema, error) {
	required := make(map[string]bool, len(s.Required))
	for _, n := range s.Required {
		required[n] = true
	}
	fields := make(map[string]*coerce.Schema, len(s.Properties))
	for name, r := range s.Properties {
		f, err := im.ref(r, at+"/properties/"+name)
		if err != nil {
			return nil, err
		}
		if !required[name] {
			f = f.Optional()
		}
		fields[name] = f
	}
	for n := range required {
		if _, ok := fields[n]; !ok {
			fields[n] = coerce.Any()
		}
	}

	ap := s.AdditionalProperties
	switch {
	case ap.Schema != nil:
		elem, err := im.ref(ap.Schema, at+"/additionalProperties")
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			return coerce.DynamicObject(elem), nil
		}
		im.diag.warnf("%s: additionalProperties schema with properties keeps extra keys unchecked", pointer(at))
		return coerce.LenientObject(fields), nil
	case ap.Has != nil && !*ap.Has:
		return coerce.Object(fields), nil
	case ap.Has != nil && *ap.Has, preserveUnknown(s), im.opts.Unknown == UnknownPreserve:
		return coerce.LenientObject(fields), nil
	}
	return coerce.Object(fields), nil
}

// typeNull is the OpenAPI 3.1 way of spelling nullable.
const typeNull = "null"

func nullable(s *openapi3.Schema) bool {
	if s.Nullable {
		return true
	}
	for _, t := range s.Type.Slice() {
		if t == typeNull {
			return true
		}
	}
	return false
}

func preserveUnknown(s *openapi3.Schema) bool {
	b, _ := s.Extensions["x-kubernetes-preserve-unknown-fields"].(bool)
	return b
}

func (im *importer) union(refs openapi3.SchemaRefs, kw, at string) (*coerce.Schema, error) {
	members := make([]*coerce.Schema, 0, len(refs))
	for i, r := range refs {
		m, err := im.ref(r, fmt.Sprintf("%s/%s/%d", at, kw, i))
		if err != nil {
			return nil, err
		}
		members = append(members, m.Required())
	}
	return coerce.OrSet(members...), nil
}

func (im *importer) enum(values []any) *coerce.Schema {
	strs := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			break
		}
		strs = append(strs, s)
	}
	if len(strs) == len(values) {
		return coerce.Enumeration(strs...)
	}
	if len(values) == 1 {
		return coerce.Constant(values[0])
	}
	members := make([]*coerce.Schema, len(values))
	for i, v := range values {
		members[i] = coerce.Constant(v)
	}
	return coerce.OrSet(members...)
}

// mergeAllOf folds allOf members into a copy of s. Object members
// contribute properties and required names; the first member that sets a
// type decides it when s has none.
func (im *importer) mergeAllOf(s *openapi3.Schema, at string) (*openapi3.Schema, error) {
	merged := *s
	merged.AllOf = nil
	merged.Properties = openapi3.Schemas{}
	for k, v := range s.Properties {
		merged.Properties[k] = v
	}
	merged.Required = append([]string(nil), s.Required...)
	for i, r := range s.AllOf {
		if r == nil {
			continue
		}
		if r.Value == nil {
			return nil, fmt.Errorf("%w %q at %s", ErrUnresolvedRef, r.Ref, pointer(fmt.Sprintf("%s/allOf/%d", at, i)))
		}
		sub := r.Value
		if len(sub.AllOf) > 0 {
			var err error
			if sub, err = im.mergeAllOf(sub, fmt.Sprintf("%s/allOf/%d", at, i)); err != nil {
				return nil, err
			}
		}
		for k, v := range sub.Properties {
			if _, exists := merged.Properties[k]; !exists {
				merged.Properties[k] = v
			}
		}
		merged.Required = append(merged.Required, sub.Required...)
		if merged.Type == nil && sub.Type != nil {
			merged.Type = sub.Type
		}
		if sub.AdditionalProperties.Has != nil && merged.AdditionalProperties.Has == nil {
			merged.AdditionalProperties.Has = sub.AdditionalProperties.Has
		}
		if len(sub.OneOf) > 0 || len(sub.AnyOf) > 0 {
			im.diag.warnf("%s/allOf/%d: nested unions are ignored", pointer(at), i)
		}
	}
	return &merged, nil
}

func pointer(at string) string {
	if at == "" {
		return "/"
	}
	return at
}
