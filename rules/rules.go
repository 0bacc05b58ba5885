// Package rules provides reusable coerce hooks for collection and
// cross-field checks. Paths are JSON Pointers relative to the value the
// hook is attached to ("" or "/" is the value itself).
package rules

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/reoring/coerce"
	"github.com/reoring/coerce/i18n"
)

// Op defines simple comparison operators for If(...).Then(...)
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// Conditional composes conditional execution of hooks.
type Conditional struct {
	path coerce.Path
	op   Op
	want any
	all  []Conditional // composite AND
	any  []Conditional // composite OR
}

// If builds a conditional that evaluates the value at path against want.
func If(path string, op Op, want any) Conditional {
	return Conditional{path: coerce.ParsePointer(path), op: op, want: want}
}

// IfAll builds a conditional that requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Then returns a hook that runs hooks in order when the condition holds.
func (c Conditional) Then(hooks ...coerce.Hook) coerce.Hook {
	all := All(hooks...)
	return func(v any, p *coerce.Pass) (any, error) {
		if !c.eval(v) {
			return v, nil
		}
		return all(v, p)
	}
}

func (c Conditional) eval(v any) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !it.eval(v) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if it.eval(v) {
				return true
			}
		}
		return false
	}
	cur, ok := valueAt(v, c.path)
	if !ok {
		return false
	}
	return compare(cur, c.op, c.want)
}

// All chains hooks, feeding each the value returned by the previous one.
// In collect mode every hook runs; the first error is returned.
func All(hooks ...coerce.Hook) coerce.Hook {
	return func(v any, p *coerce.Pass) (any, error) {
		var first error
		for _, h := range hooks {
			if h == nil {
				continue
			}
			out, err := h(v, p)
			if err != nil {
				if !p.Options().CollectErrors {
					return nil, err
				}
				if first == nil {
					first = err
				}
				continue
			}
			v = out
		}
		if first != nil {
			return nil, first
		}
		return v, nil
	}
}

// NonEmpty fails when the value is an empty string, array or object.
func NonEmpty(message ...string) coerce.Hook {
	return func(v any, p *coerce.Pass) (any, error) {
		if n, ok := length(v); ok && n == 0 {
			return nil, p.Fail(coerce.CodeTooShort, pick(message, i18n.T(i18n.Empty, nil)))
		}
		return v, nil
	}
}

// ItemCount bounds the number of elements of an array value. max < 0
// means unbounded.
func ItemCount(min, max int) coerce.Hook {
	return func(v any, p *coerce.Pass) (any, error) {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return v, nil
		}
		n := rv.Len()
		data := map[string]string{"count": strconv.Itoa(n), "min": strconv.Itoa(min), "max": strconv.Itoa(max)}
		if n < min {
			return nil, p.Fail(coerce.CodeTooShort, i18n.T(i18n.TooFewItems, data))
		}
		if max >= 0 && n > max {
			return nil, p.Fail(coerce.CodeTooLong, i18n.T(i18n.TooManyItems, data))
		}
		return v, nil
	}
}

// AtLeastOne ensures the collection at collectionPath has at least one
// element. A missing or non-collection value is left to the schema.
func AtLeastOne(collectionPath string) coerce.Hook {
	cp := coerce.ParsePointer(collectionPath)
	return func(v any, p *coerce.Pass) (any, error) {
		val, ok := valueAt(v, cp)
		if !ok {
			return v, nil
		}
		rv := reflect.ValueOf(val)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			if rv.Len() == 0 {
				data := map[string]string{"count": "0", "min": "1"}
				return nil, at(p, cp, val).Fail(coerce.CodeTooShort, i18n.T(i18n.TooFewItems, data))
			}
		}
		return v, nil
	}
}

// UniqueBy ensures elements of the collection at collectionPath have
// distinct values at keyPath. Every duplicate is reported at its own
// position; the first one is returned.
// Keys are compared by their fmt.Sprint rendering, so keep key types uniform.
func UniqueBy(collectionPath, keyPath string) coerce.Hook {
	cp := coerce.ParsePointer(collectionPath)
	kp := coerce.ParsePointer(keyPath)
	return func(v any, p *coerce.Pass) (any, error) {
		val, ok := valueAt(v, cp)
		if !ok {
			return v, nil
		}
		rv := reflect.ValueOf(val)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return v, nil
		}
		seen := map[string]int{}
		var first error
		for i := 0; i < rv.Len(); i++ {
			elem := rv.Index(i).Interface()
			kv, ok := valueAt(elem, kp)
			if !ok {
				continue
			}
			key := fmt.Sprint(kv)
			j, dup := seen[key]
			if !dup {
				seen[key] = i
				continue
			}
			where := append(cp.Index(i), kp...)
			ve := at(p, where, kv).Fail(coerce.CodeUniqueness, i18n.T(i18n.Duplicate, map[string]string{
				"key":   key,
				"first": strconv.Itoa(j),
			}))
			if first == nil {
				first = ve
			}
			if !p.Options().CollectErrors {
				break
			}
		}
		if first != nil {
			return nil, first
		}
		return v, nil
	}
}

// Unique ensures the elements of an array value are distinct.
func Unique() coerce.Hook { return UniqueBy("", "") }

// RequireAnyOf fails unless at least one of fields holds a non-null value.
func RequireAnyOf(fields ...string) coerce.Hook {
	return func(v any, p *coerce.Pass) (any, error) {
		if countSet(v, fields) == 0 {
			return nil, p.Fail(coerce.CodeBusinessRule, i18n.T(i18n.AnyOfFields, map[string]string{"fields": strings.Join(fields, ", ")}))
		}
		return v, nil
	}
}

// RequireOneOf fails unless exactly one of fields holds a non-null value.
func RequireOneOf(fields ...string) coerce.Hook {
	return func(v any, p *coerce.Pass) (any, error) {
		if countSet(v, fields) != 1 {
			return nil, p.Fail(coerce.CodeBusinessRule, i18n.T(i18n.OneOfFields, map[string]string{"fields": strings.Join(fields, ", ")}))
		}
		return v, nil
	}
}

// ------- helpers -------

func countSet(v any, fields []string) int {
	n := 0
	for _, f := range fields {
		if fv, ok := valueAt(v, coerce.Path{f}); ok && fv != nil && coerce.IsPresent(fv) {
			n++
		}
	}
	return n
}

// at returns a pass below p for reporting at a relative path.
func at(p *coerce.Pass, rel coerce.Path, v any) *coerce.Pass {
	if len(rel) == 0 {
		return p
	}
	return p.Next(append(p.Path(), rel...), nil, v)
}

func pick(msgs []string, def string) string {
	if len(msgs) > 0 && msgs[0] != "" {
		return msgs[0]
	}
	return def
}

func length(v any) (int, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return len([]rune(rv.String())), true
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

// valueAt navigates maps and slices by path segments.
func valueAt(v any, path coerce.Path) (any, bool) {
	cur := reflect.ValueOf(v)
	for _, seg := range path {
		if !cur.IsValid() {
			return nil, false
		}
		if cur.Kind() == reflect.Interface || cur.Kind() == reflect.Pointer {
			if cur.IsNil() {
				return nil, false
			}
			cur = cur.Elem()
		}
		switch cur.Kind() {
		case reflect.Map:
			if cur.Type().Key().Kind() != reflect.String {
				return nil, false
			}
			mv := cur.MapIndex(reflect.ValueOf(seg).Convert(cur.Type().Key()))
			if !mv.IsValid() {
				return nil, false
			}
			cur = mv
		case reflect.Slice, reflect.Array:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= cur.Len() {
				return nil, false
			}
			cur = cur.Index(idx)
		default:
			return nil, false
		}
	}
	if !cur.IsValid() {
		return nil, false
	}
	return cur.Interface(), true
}

func compare(cur any, op Op, want any) bool {
	a, aok := number(cur)
	b, bok := number(want)
	switch op {
	case Eq:
		if aok && bok {
			return a == b
		}
		return reflect.DeepEqual(cur, want)
	case Ne:
		if aok && bok {
			return a != b
		}
		return !reflect.DeepEqual(cur, want)
	}
	if !aok || !bok {
		return false
	}
	switch op {
	case Lt:
		return a < b
	case Le:
		return a <= b
	case Gt:
		return a > b
	case Ge:
		return a >= b
	}
	return false
}

func number(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch {
	case !rv.IsValid():
		return 0, false
	case rv.CanFloat():
		return rv.Float(), true
	case rv.CanInt():
		return float64(rv.Int()), true
	case rv.CanUint():
		return float64(rv.Uint()), true
	}
	return 0, false
}
