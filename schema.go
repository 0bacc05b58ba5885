package coerce

import (
	"sort"

	"github.com/reoring/coerce/i18n"
)

// Hook is a pipeline callback. It receives the current value and returns
// the value handed to the next step, or an error to fail the node.
type Hook func(value any, pass *Pass) (any, error)

// Stage selects where a Hook runs in the pipeline.
type Stage uint8

const (
	StageBeforeAll Stage = iota
	StageBeforeDefault
	StageAfterDefault
	StageBeforeConversion
	StageAfterConversion
	StageAfterAll
	numStages
)

var stageNames = [...]string{
	StageBeforeAll:        "beforeAll",
	StageBeforeDefault:    "beforeDefault",
	StageAfterDefault:     "afterDefault",
	StageBeforeConversion: "beforeConversion",
	StageAfterConversion:  "afterConversion",
	StageAfterAll:         "afterAll",
}

func (s Stage) String() string {
	if s < numStages {
		return stageNames[s]
	}
	return "Stage(?)"
}

// Hooks holds the callback lists accepted by the New* constructors.
type Hooks struct {
	BeforeAll        []Hook
	BeforeDefault    []Hook
	AfterDefault     []Hook
	BeforeConversion []Hook
	AfterConversion  []Hook
	AfterAll         []Hook
}

type hookTable [numStages][]Hook

func (h *Hooks) table() hookTable {
	var t hookTable
	if h == nil {
		return t
	}
	t[StageBeforeAll] = clip(h.BeforeAll)
	t[StageBeforeDefault] = clip(h.BeforeDefault)
	t[StageAfterDefault] = clip(h.AfterDefault)
	t[StageBeforeConversion] = clip(h.BeforeConversion)
	t[StageAfterConversion] = clip(h.AfterConversion)
	t[StageAfterAll] = clip(h.AfterAll)
	return t
}

// clip caps the capacity so a later append always copies.
func clip(hs []Hook) []Hook { return hs[:len(hs):len(hs)] }

// Field is a named child of an Object or LenientObject schema.
type Field struct {
	Name   string
	Schema *Schema
}

// Schema is an immutable description of an accepted shape. Build schemas
// with the constructors in this package or with dsl; every modifier returns
// a new *Schema.
type Schema struct {
	kind        Kind
	required    bool
	def         any
	hooks       hookTable
	fields      []Field   // Object, LenientObject; sorted by name
	elem        *Schema   // Array, DynamicObject
	items       []*Schema // Tuple
	members     []*Schema // OrSet
	enum        []string  // Enumeration
	constant    any       // Constant
	description string
}

func newSchema(kind Kind, required bool, def any, hooks *Hooks) *Schema {
	return &Schema{kind: kind, required: required, def: def, hooks: hooks.table()}
}

// NewString is the constructor used by builders: required flag, default
// (literal, func() any or func(*Pass) any; nil for none) and hook lists.
func NewString(required bool, def any, hooks *Hooks) *Schema {
	return newSchema(KindString, required, def, hooks)
}

func NewNumber(required bool, def any, hooks *Hooks) *Schema {
	return newSchema(KindNumber, required, def, hooks)
}

func NewBoolean(required bool, def any, hooks *Hooks) *Schema {
	return newSchema(KindBoolean, required, def, hooks)
}

func NewDate(required bool, def any, hooks *Hooks) *Schema {
	return newSchema(KindDate, required, def, hooks)
}

func NewAny(required bool, def any, hooks *Hooks) *Schema {
	return newSchema(KindAny, required, def, hooks)
}

// NewConstant accepts only values deeply equal to value.
func NewConstant(value any, required bool, def any, hooks *Hooks) *Schema {
	s := newSchema(KindConstant, required, def, hooks)
	s.constant = value
	return s
}

// NewEnumeration accepts only the listed strings.
func NewEnumeration(members []string, required bool, def any, hooks *Hooks) *Schema {
	s := newSchema(KindEnumeration, required, def, hooks)
	s.enum = append([]string(nil), members...)
	return s
}

// NewObject validates the declared fields and drops every other key.
func NewObject(fields map[string]*Schema, required bool, def any, hooks *Hooks) *Schema {
	s := newSchema(KindObject, required, def, hooks)
	s.fields = sortedFields(fields)
	return s
}

// NewLenientObject validates the declared fields and keeps every other key.
func NewLenientObject(fields map[string]*Schema, required bool, def any, hooks *Hooks) *Schema {
	s := newSchema(KindLenientObject, required, def, hooks)
	s.fields = sortedFields(fields)
	return s
}

// NewDynamicObject applies elem to the value under every key.
func NewDynamicObject(elem *Schema, required bool, def any, hooks *Hooks) *Schema {
	s := newSchema(KindDynamicObject, required, def, hooks)
	s.elem = elem
	return s
}

// NewArray applies elem to every element.
func NewArray(elem *Schema, required bool, def any, hooks *Hooks) *Schema {
	s := newSchema(KindArray, required, def, hooks)
	s.elem = elem
	return s
}

// NewTuple applies items[i] to position i.
func NewTuple(items []*Schema, required bool, def any, hooks *Hooks) *Schema {
	s := newSchema(KindTuple, required, def, hooks)
	s.items = append([]*Schema(nil), items...)
	return s
}

// NewOrSet accepts a value accepted by the first type-matching member.
func NewOrSet(members []*Schema, required bool, def any, hooks *Hooks) *Schema {
	s := newSchema(KindOrSet, required, def, hooks)
	s.members = append([]*Schema(nil), members...)
	return s
}

// Short constructors produce required nodes without a default.

func String() *Schema                                 { return NewString(true, nil, nil) }
func Number() *Schema                                 { return NewNumber(true, nil, nil) }
func Boolean() *Schema                                { return NewBoolean(true, nil, nil) }
func Date() *Schema                                   { return NewDate(true, nil, nil) }
func Any() *Schema                                    { return NewAny(true, nil, nil) }
func Constant(value any) *Schema                      { return NewConstant(value, true, nil, nil) }
func Enumeration(members ...string) *Schema           { return NewEnumeration(members, true, nil, nil) }
func Object(fields map[string]*Schema) *Schema        { return NewObject(fields, true, nil, nil) }
func LenientObject(fields map[string]*Schema) *Schema { return NewLenientObject(fields, true, nil, nil) }
func DynamicObject(elem *Schema) *Schema              { return NewDynamicObject(elem, true, nil, nil) }
func Array(elem *Schema) *Schema                      { return NewArray(elem, true, nil, nil) }
func Tuple(items ...*Schema) *Schema                  { return NewTuple(items, true, nil, nil) }
func OrSet(members ...*Schema) *Schema                { return NewOrSet(members, true, nil, nil) }

func sortedFields(m map[string]*Schema) []Field {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	out := make([]Field, 0, len(names))
	for _, n := range names {
		out = append(out, Field{Name: n, Schema: m[n]})
	}
	return out
}

func (s *Schema) clone() *Schema {
	cp := *s
	for i := range cp.hooks {
		cp.hooks[i] = clip(cp.hooks[i])
	}
	return &cp
}

// Required returns a copy that fails on absent values without a default.
func (s *Schema) Required() *Schema {
	cp := s.clone()
	cp.required = true
	return cp
}

// Optional returns a copy that yields Undefined for absent values.
func (s *Schema) Optional() *Schema {
	cp := s.clone()
	cp.required = false
	return cp
}

// Default returns a copy with a default applied to absent values. def may be
// a literal, a func() any or a func(*Pass) any generator; nil removes the
// default.
func (s *Schema) Default(def any) *Schema {
	cp := s.clone()
	cp.def = def
	return cp
}

// DefaultFunc is Default with a pass-aware generator.
func (s *Schema) DefaultFunc(fn func(*Pass) any) *Schema {
	if fn == nil {
		return s.Default(nil)
	}
	return s.Default(fn)
}

// Custom returns a copy with h appended to the given stage (StageAfterAll
// when omitted).
func (s *Schema) Custom(h Hook, stage ...Stage) *Schema {
	st := StageAfterAll
	if len(stage) > 0 {
		st = stage[0]
	}
	cp := s.clone()
	if st >= numStages || h == nil {
		return cp
	}
	cp.hooks[st] = append(cp.hooks[st], h)
	return cp
}

// Ensure appends an afterAll hook failing with message (default
// "Failed to ensure value.") when pred returns false.
func (s *Schema) Ensure(pred func(value any, pass *Pass) bool, message ...string) *Schema {
	msg := ""
	if len(message) > 0 {
		msg = message[0]
	}
	return s.Custom(func(v any, p *Pass) (any, error) {
		if pred(v, p) {
			return v, nil
		}
		m := msg
		if m == "" {
			m = i18n.T(i18n.EnsureFailure, nil)
		}
		return nil, p.Fail(CodeEnsureFailure, m)
	})
}

// Describe returns a copy carrying a free-form description.
func (s *Schema) Describe(text string) *Schema {
	cp := s.clone()
	cp.description = text
	return cp
}

// Metadata accessors for renderers and importers.

func (s *Schema) Kind() Kind { return s.kind }

// Type returns the declared type tag. Constant schemas report the tag of
// their configured value.
func (s *Schema) Type() Type {
	if s.kind == KindConstant {
		return TypeOf(s.constant)
	}
	return declaredType[s.kind]
}

func (s *Schema) IsRequired() bool { return s.required }

func (s *Schema) HasDefault() bool { return s.def != nil }

// IsDefaultGenerated reports whether the default is a generator function.
func (s *Schema) IsDefaultGenerated() bool {
	switch s.def.(type) {
	case func() any, func(*Pass) any:
		return true
	}
	return false
}

// DefaultValue resolves the default, invoking a generator with p. p may be
// nil for generators that ignore it.
func (s *Schema) DefaultValue(p *Pass) any {
	switch d := s.def.(type) {
	case nil:
		return Undefined
	case func() any:
		return d()
	case func(*Pass) any:
		return d(p)
	default:
		return d
	}
}

func (s *Schema) Description() string { return s.description }

// Fields returns the declared fields sorted by name.
func (s *Schema) Fields() []Field { return append([]Field(nil), s.fields...) }

// Field looks up a declared field.
func (s *Schema) Field(name string) (*Schema, bool) {
	i := sort.Search(len(s.fields), func(i int) bool { return s.fields[i].Name >= name })
	if i < len(s.fields) && s.fields[i].Name == name {
		return s.fields[i].Schema, true
	}
	return nil, false
}

func (s *Schema) Elem() *Schema      { return s.elem }
func (s *Schema) Items() []*Schema   { return append([]*Schema(nil), s.items...) }
func (s *Schema) Members() []*Schema { return append([]*Schema(nil), s.members...) }
func (s *Schema) Enum() []string     { return append([]string(nil), s.enum...) }
func (s *Schema) Constant() any      { return s.constant }

// HookCount returns the number of hooks registered for st.
func (s *Schema) HookCount(st Stage) int {
	if st >= numStages {
		return 0
	}
	return len(s.hooks[st])
}
