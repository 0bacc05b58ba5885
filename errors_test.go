package coerce_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/reoring/coerce"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := coerce.Issues{
		{Path: "/a", Code: "missing"},
		{Path: "/b", Code: "incorrect_type"},
		{Path: "/c", Code: "pattern"},
		{Path: "/d", Code: "too_long"},
	}
	want := "missing at /a; incorrect_type at /b; pattern at /c; ... (total 4)"
	if iss.Error() != want {
		t.Fatalf("got %q", iss.Error())
	}
	wrapped := fmt.Errorf("wrap: %w", iss)
	got, ok := coerce.AsIssues(wrapped)
	if !ok || len(got) != 4 {
		t.Fatalf("AsIssues failed on wrapped Issues")
	}
}

func TestAsIssues_FromTopLevel(t *testing.T) {
	s := coerce.Object(map[string]*coerce.Schema{"a/b": coerce.Number(), "c": coerce.String()})
	_, err := s.Validate(map[string]any{"a/b": "x"}, coerce.Options{CollectErrors: true})
	iss, ok := coerce.AsIssues(fmt.Errorf("ctx: %w", err))
	if !ok || len(iss) != 2 {
		t.Fatalf("expected two issues, got %v", iss)
	}
	if iss[0].Path != "/a~1b" || iss[1].Path != "/c" {
		t.Fatalf("unexpected paths %q %q", iss[0].Path, iss[1].Path)
	}
	tl, _ := coerce.AsTopLevel(err)
	if !reflect.DeepEqual(tl.Codes(), []string{coerce.CodeIncorrectType, coerce.CodeMissing}) {
		t.Fatalf("codes %v", tl.Codes())
	}
	var ve *coerce.ValidationError
	if !errors.As(err, &ve) || ve.Code != coerce.CodeIncorrectType {
		t.Fatalf("errors.As should reach the first ValidationError")
	}
}

func TestAsHelpers_NilAndForeignErrors(t *testing.T) {
	if _, ok := coerce.AsIssues(nil); ok {
		t.Fatalf("nil error")
	}
	if _, ok := coerce.AsValidationErrors(errors.New("plain")); ok {
		t.Fatalf("plain error")
	}
}

func TestPath_PointerRoundTrip(t *testing.T) {
	p := coerce.Path{}.Key("a/b").Key("c~d").Index(2)
	if p.String() != "a/b.c~d.2" {
		t.Fatalf("string %q", p.String())
	}
	if p.Pointer() != "/a~1b/c~0d/2" {
		t.Fatalf("pointer %q", p.Pointer())
	}
	if !reflect.DeepEqual(coerce.ParsePointer(p.Pointer()), p) {
		t.Fatalf("round trip failed")
	}
	if (coerce.Path{}).Pointer() != "/" || len(coerce.ParsePointer("/")) != 0 {
		t.Fatalf("root pointer")
	}
}
