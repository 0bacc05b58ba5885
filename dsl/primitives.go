package dsl

import (
	"sort"

	"github.com/reoring/coerce"
)

// Fields declares the named children of an object schema.
type Fields map[string]*coerce.Schema

func String() *coerce.Schema               { return coerce.String() }
func Number() *coerce.Schema               { return coerce.Number() }
func Bool() *coerce.Schema                 { return coerce.Boolean() }
func Date() *coerce.Schema                 { return coerce.Date() }
func Any() *coerce.Schema                  { return coerce.Any() }
func Const(v any) *coerce.Schema           { return coerce.Constant(v) }
func Enum(values ...string) *coerce.Schema { return coerce.Enumeration(values...) }

// ObjectOf is a required Object schema over fs; unknown keys are dropped.
func ObjectOf(fs Fields) *coerce.Schema { return coerce.Object(fs) }

// Lenient is a required LenientObject schema over fs; unknown keys are kept.
func Lenient(fs Fields) *coerce.Schema { return coerce.LenientObject(fs) }

// Map is a required DynamicObject schema applying elem to every key.
func Map(elem *coerce.Schema) *coerce.Schema { return coerce.DynamicObject(elem) }

func Array(elem *coerce.Schema) *coerce.Schema { return coerce.Array(elem) }

func Tuple(items ...*coerce.Schema) *coerce.Schema { return coerce.Tuple(items...) }

// OrSet accepts the first type-matching member that validates.
func OrSet(members []*coerce.Schema) *coerce.Schema { return coerce.OrSet(members...) }

// Members collects OrSet members in declaration order.
func Members(ss ...*coerce.Schema) []*coerce.Schema { return append([]*coerce.Schema(nil), ss...) }

// Keys returns the field names of fs in sorted order.
func Keys(fs Fields) []string {
	keys := make([]string, 0, len(fs))
	for k := range fs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values returns the field schemas of fs in the order of Keys.
func Values(fs Fields) []*coerce.Schema {
	keys := Keys(fs)
	out := make([]*coerce.Schema, 0, len(keys))
	for _, k := range keys {
		out = append(out, fs[k])
	}
	return out
}
