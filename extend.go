package coerce

import (
	"errors"
	"fmt"
	"maps"
)

// ErrExtend is wrapped by every error returned from Extend.
var ErrExtend = errors.New("coerce: cannot extend schema")

// extendError builds the invalid_schema error returned by Extend.
func extendError(format string, args ...any) error {
	cause := fmt.Errorf("%w: "+format, append([]any{ErrExtend}, args...)...)
	return &ValidationError{Code: CodeInvalidSchema, Message: cause.Error(), Cause: cause}
}

// Extend merges the fields of other into a copy of s; fields of other win.
// Both schemas must be Object or LenientObject schemas with the same kind
// and required flag, and either both or neither must carry a default. Merged
// defaults are generated by shallow-merging both defaults. The result keeps
// the hooks and description of s.
func (s *Schema) Extend(other *Schema) (*Schema, error) {
	if s == nil || other == nil {
		return nil, extendError("nil schema")
	}
	if s.kind != KindObject && s.kind != KindLenientObject {
		return nil, extendError("%s is not an object schema", s.kind)
	}
	if other.kind != s.kind {
		return nil, extendError("kind %s does not match %s", other.kind, s.kind)
	}
	if other.required != s.required {
		return nil, extendError("required flags differ")
	}
	if s.HasDefault() != other.HasDefault() {
		return nil, extendError("both or neither default values must be specified")
	}

	fields := make(map[string]*Schema, len(s.fields)+len(other.fields))
	for _, f := range s.fields {
		fields[f.Name] = f.Schema
	}
	for _, f := range other.fields {
		fields[f.Name] = f.Schema
	}

	cp := s.clone()
	cp.fields = sortedFields(fields)
	if s.HasDefault() {
		base, ext := s, other
		cp.def = func(p *Pass) any {
			merged := map[string]any{}
			if m, ok := toObject(base.DefaultValue(p)); ok {
				maps.Copy(merged, m)
			}
			if m, ok := toObject(ext.DefaultValue(p)); ok {
				maps.Copy(merged, m)
			}
			return merged
		}
	}
	return cp, nil
}

// MustExtend is like Extend but panics on error.
func (s *Schema) MustExtend(other *Schema) *Schema {
	out, err := s.Extend(other)
	if err != nil {
		panic(err)
	}
	return out
}
