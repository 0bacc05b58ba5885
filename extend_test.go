package coerce_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/reoring/coerce"
)

func TestExtend_MergesFieldsRightWins(t *testing.T) {
	base := coerce.Object(map[string]*coerce.Schema{
		"id":   coerce.Number(),
		"name": coerce.String(),
	})
	ext := coerce.Object(map[string]*coerce.Schema{
		"name":  coerce.String().Optional(),
		"email": coerce.String(),
	})
	merged, err := base.Extend(ext)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, f := range merged.Fields() {
		names = append(names, f.Name)
	}
	if !reflect.DeepEqual(names, []string{"email", "id", "name"}) {
		t.Fatalf("fields %v", names)
	}
	got := mustValidate(t, merged, map[string]any{"id": "1", "email": "a@b"})
	if !reflect.DeepEqual(got, map[string]any{"id": float64(1), "email": "a@b"}) {
		t.Fatalf("got %#v", got)
	}
	if len(base.Fields()) != 2 {
		t.Fatalf("receiver was mutated")
	}
}

func TestExtend_MergesDefaults(t *testing.T) {
	base := coerce.Object(map[string]*coerce.Schema{"a": coerce.Number()}).Default(map[string]any{"a": 1})
	ext := coerce.Object(map[string]*coerce.Schema{"b": coerce.Number()}).Default(func() any { return map[string]any{"b": 2} })
	merged := base.MustExtend(ext)
	if !merged.IsDefaultGenerated() {
		t.Fatalf("merged default must be generated")
	}
	got := mustValidate(t, merged, coerce.Undefined)
	if !reflect.DeepEqual(got, map[string]any{"a": float64(1), "b": float64(2)}) {
		t.Fatalf("got %#v", got)
	}
}

func TestExtend_RejectsInconsistentSchemas(t *testing.T) {
	obj := coerce.Object(nil)
	cases := map[string]*coerce.Schema{
		"default presence": coerce.Object(nil).Default(map[string]any{}),
		"required flag":    coerce.Object(nil).Optional(),
		"kind":             coerce.LenientObject(nil),
	}
	for name, other := range cases {
		if _, err := obj.Extend(other); !errors.Is(err, coerce.ErrExtend) {
			t.Fatalf("%s: expected ErrExtend, got %v", name, err)
		}
		_, err := obj.Extend(other)
		if ves, ok := coerce.AsValidationErrors(err); !ok || ves[0].Code != coerce.CodeInvalidSchema {
			t.Fatalf("%s: expected invalid_schema error, got %v", name, err)
		}
	}
	if _, err := coerce.String().Extend(obj); !errors.Is(err, coerce.ErrExtend) {
		t.Fatalf("non-object receiver must be rejected")
	}
}
