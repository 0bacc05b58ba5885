package dsl

import (
	"errors"
	"fmt"

	"github.com/reoring/coerce"
)

type objectBuilder struct {
	fields        map[string]*coerce.Schema
	lenient       bool
	optional      bool
	def           any
	description   string
	refines       []objRefine
	discriminator string
	variants      []UnionVariant
	errs          []error
}

type objRefine struct {
	name string
	fn   func(m map[string]any, p *coerce.Pass) error
}

type fieldStep struct {
	b    *objectBuilder
	name string
}

// Object creates a new object builder. Fields are required unless marked
// Optional or given a Default.
func Object() *objectBuilder {
	return &objectBuilder{fields: map[string]*coerce.Schema{}}
}

// Field registers a field schema. Registering the same name twice is
// reported by Build.
func (b *objectBuilder) Field(name string, s *coerce.Schema) *fieldStep {
	if _, dup := b.fields[name]; dup {
		b.errs = append(b.errs, fmt.Errorf("dsl: duplicate field %q", name))
	}
	if s == nil {
		b.errs = append(b.errs, fmt.Errorf("dsl: field %q has no schema", name))
		s = coerce.Any()
	}
	b.fields[name] = s
	return &fieldStep{b: b, name: name}
}

// Required marks the field as required and returns the builder.
func (f *fieldStep) Required() *objectBuilder {
	f.b.fields[f.name] = f.b.fields[f.name].Required()
	return f.b
}

// Optional marks the field as optional and returns the builder.
func (f *fieldStep) Optional() *objectBuilder {
	f.b.fields[f.name] = f.b.fields[f.name].Optional()
	return f.b
}

// Default sets a default for the current field.
func (f *fieldStep) Default(v any) *objectBuilder {
	f.b.fields[f.name] = f.b.fields[f.name].Default(v)
	return f.b
}

// Describe attaches a description to the current field.
func (f *fieldStep) Describe(text string) *objectBuilder {
	f.b.fields[f.name] = f.b.fields[f.name].Describe(text)
	return f.b
}

func (f *fieldStep) Field(name string, s *coerce.Schema) *fieldStep { return f.b.Field(name, s) }
func (f *fieldStep) Lenient() *objectBuilder                       { return f.b.Lenient() }
func (f *fieldStep) Build() (*coerce.Schema, error)                { return f.b.Build() }
func (f *fieldStep) MustBuild() *coerce.Schema                     { return f.b.MustBuild() }
func (f *fieldStep) Refine(name string, fn func(map[string]any, *coerce.Pass) error) *objectBuilder {
	return f.b.Refine(name, fn)
}

// Lenient keeps unknown keys (LenientObject) instead of dropping them.
func (b *objectBuilder) Lenient() *objectBuilder {
	b.lenient = true
	return b
}

// Optional makes the built object itself optional.
func (b *objectBuilder) Optional() *objectBuilder {
	b.optional = true
	return b
}

// Default sets the default of the built object.
func (b *objectBuilder) Default(v any) *objectBuilder {
	b.def = v
	return b
}

// Describe attaches a description to the built object.
func (b *objectBuilder) Describe(text string) *objectBuilder {
	b.description = text
	return b
}

// Refine adds an object-level check run after every field validated. The
// error is reported at the object path.
func (b *objectBuilder) Refine(name string, fn func(map[string]any, *coerce.Pass) error) *objectBuilder {
	if fn == nil {
		return b
	}
	b.refines = append(b.refines, objRefine{name: name, fn: fn})
	return b
}

// Discriminator sets the discriminator key for a discriminated union.
func (b *objectBuilder) Discriminator(key string) *objectBuilder {
	b.discriminator = key
	return b
}

// UnionVariant is a named object schema of a discriminated union.
type UnionVariant struct {
	name   string
	schema *coerce.Schema
}

// Variant constructs a UnionVariant.
func Variant(name string, s *coerce.Schema) UnionVariant {
	return UnionVariant{name: name, schema: s}
}

// OneOf registers union variants when a discriminator is set.
func (b *objectBuilder) OneOf(vars ...UnionVariant) *objectBuilder {
	for _, v := range vars {
		if v.name == "" || v.schema == nil {
			b.errs = append(b.errs, errors.New("dsl: variant needs a name and a schema"))
			continue
		}
		b.variants = append(b.variants, v)
	}
	return b
}

// Build validates the builder and returns a Schema. With a discriminator
// and variants the result is an OrSet whose members pin the discriminator
// field to the variant name; refines then run on the matched variant's
// model.
func (b *objectBuilder) Build() (*coerce.Schema, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	var s *coerce.Schema
	if b.discriminator != "" && len(b.variants) > 0 {
		if b.lenient || len(b.fields) > 0 {
			return nil, errors.New("dsl: declare fields and Lenient on the variants of a discriminated union")
		}
		var err error
		if s, err = b.buildUnion(); err != nil {
			return nil, err
		}
	} else if b.lenient {
		s = coerce.LenientObject(b.fields)
	} else {
		s = coerce.Object(b.fields)
	}
	for _, r := range b.refines {
		s = s.Custom(refineHook(r))
	}
	if b.optional {
		s = s.Optional()
	}
	if b.def != nil {
		s = s.Default(b.def)
	}
	if b.description != "" {
		s = s.Describe(b.description)
	}
	return s, nil
}

func (b *objectBuilder) buildUnion() (*coerce.Schema, error) {
	members := make([]*coerce.Schema, 0, len(b.variants))
	for _, v := range b.variants {
		pin := coerce.Object(map[string]*coerce.Schema{b.discriminator: coerce.Constant(v.name)})
		if v.schema.Kind() == coerce.KindLenientObject {
			pin = coerce.LenientObject(map[string]*coerce.Schema{b.discriminator: coerce.Constant(v.name)})
		}
		if !v.schema.IsRequired() {
			pin = pin.Optional()
		}
		m, err := v.schema.Extend(pin)
		if err != nil {
			return nil, fmt.Errorf("dsl: variant %q: %w", v.name, err)
		}
		members = append(members, m)
	}
	return coerce.OrSet(members...), nil
}

func refineHook(r objRefine) coerce.Hook {
	return func(v any, p *coerce.Pass) (any, error) {
		m, ok := v.(map[string]any)
		if !ok {
			return v, nil
		}
		if err := r.fn(m, p); err != nil {
			if r.name == "" {
				return nil, err
			}
			return nil, fmt.Errorf("%s: %w", r.name, err)
		}
		return v, nil
	}
}

// MustBuild is like Build but panics on error.
func (b *objectBuilder) MustBuild() *coerce.Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
