package coerce

import (
	"reflect"
	"sort"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/coerce/i18n"
)

// failChild decides how a composite proceeds after a child failed: stop in
// fail-fast mode, continue (with the child treated as Undefined) otherwise.
func failChild(p *Pass, err error) bool {
	return err != nil && !p.opts.CollectErrors
}

// checkObject walks the declared fields, never the input keys. With
// lenient set, the output starts as a shallow copy of the input so unknown
// keys survive.
func (s *Schema) checkObject(v any, p *Pass, lenient bool) (any, error) {
	in, ok := toObject(v)
	if !ok {
		return Undefined, conversionError(v, TypeObject, p)
	}
	out := make(map[string]any, len(s.fields))
	if lenient {
		for k, val := range in {
			out[k] = val
		}
	}
	for _, f := range s.fields {
		src, found := in[f.Name]
		if !found {
			src = Undefined
		}
		res, err := f.Schema.run(src, p.Child(f.Name, f.Schema, src))
		if failChild(p, err) {
			return Undefined, err
		}
		if IsPresent(res) {
			out[f.Name] = res
		} else {
			delete(out, f.Name)
		}
	}
	return out, nil
}

// checkDynamicObject applies elem to every input key, in sorted key order.
func (s *Schema) checkDynamicObject(v any, p *Pass) (any, error) {
	in, ok := toObject(v)
	if !ok {
		return Undefined, conversionError(v, TypeObject, p)
	}
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(map[string]any, len(in))
	for _, k := range keys {
		res, err := s.elem.run(in[k], p.Child(k, s.elem, in[k]))
		if failChild(p, err) {
			return Undefined, err
		}
		if IsPresent(res) {
			out[k] = res
		}
	}
	return out, nil
}

// checkArray applies elem to every index. Undefined results become nil so
// positions are preserved.
func (s *Schema) checkArray(v any, p *Pass) (any, error) {
	in, ok := toArray(v)
	if !ok {
		return Undefined, conversionError(v, TypeArray, p)
	}
	out := make([]any, len(in))
	for i, src := range in {
		res, err := s.elem.run(src, p.Next(p.path.Index(i), s.elem, src))
		if failChild(p, err) {
			return Undefined, err
		}
		out[i] = definedOrNil(res)
	}
	return out, nil
}

// checkTuple validates position i with items[i]; input positions beyond
// the declared items are dropped.
func (s *Schema) checkTuple(v any, p *Pass) (any, error) {
	in, ok := toArray(v)
	if !ok {
		return Undefined, conversionError(v, TypeArray, p)
	}
	out := make([]any, len(s.items))
	for i, item := range s.items {
		src := Undefined
		if i < len(in) {
			src = in[i]
		}
		res, err := item.run(src, p.Next(p.path.Index(i), item, src))
		if failChild(p, err) {
			return Undefined, err
		}
		out[i] = definedOrNil(res)
	}
	return out, nil
}

func definedOrNil(v any) any {
	if IsPresent(v) {
		return v
	}
	return nil
}

func (s *Schema) checkConstant(v any, p *Pass) (any, error) {
	if reflect.DeepEqual(normalize(v), normalize(s.constant)) {
		return v, nil
	}
	return Undefined, p.Fail(CodeInvalidConstant, i18n.T(i18n.Constant, map[string]string{
		"got":  renderJSON(v),
		"want": renderJSON(s.constant),
	}))
}

func (s *Schema) checkEnumeration(v any, p *Pass) (any, error) {
	str, isString := v.(string)
	if !isString {
		if rv := reflect.ValueOf(v); v != nil && rv.Kind() == reflect.String {
			str, isString = rv.String(), true
		}
	}
	if isString {
		for _, m := range s.enum {
			if m == str {
				return str, nil
			}
		}
	} else {
		str = renderJSON(v)
	}
	return Undefined, p.Fail(CodeInvalidEnum, i18n.T(i18n.Enum, map[string]string{
		"value":   str,
		"members": strings.Join(s.enum, ", "),
	}))
}

// normalize maps values onto the canonical model representation so deep
// equality ignores Go-level differences such as int vs float64.
func normalize(v any) any {
	switch TypeOf(v) {
	case TypeNumber:
		f, _ := toFloat(v)
		return f
	case TypeString:
		return reflect.ValueOf(v).String()
	case TypeBoolean:
		return reflect.ValueOf(v).Bool()
	case TypeDate:
		t, _ := toTime(v)
		return t.UnixNano()
	case TypeObject:
		m, _ := toObject(v)
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = normalize(val)
		}
		return out
	case TypeArray:
		a, _ := toArray(v)
		out := make([]any, len(a))
		for i, val := range a {
			out[i] = normalize(val)
		}
		return out
	case TypeNull:
		return nil
	}
	return v
}

// renderJSON renders v for messages; values that do not encode fall back to
// their type name.
func renderJSON(v any) string {
	if !IsPresent(v) {
		return "undefined"
	}
	b, err := gojson.Marshal(v)
	if err != nil {
		return TypeName(v)
	}
	return string(b)
}
