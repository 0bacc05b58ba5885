package coerce_test

import (
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/reoring/coerce"
)

func firstError(t *testing.T, s *coerce.Schema, in any, opts ...coerce.Options) *coerce.ValidationError {
	t.Helper()
	_, err := s.Validate(in, opts...)
	ves, ok := coerce.AsValidationErrors(err)
	if !ok || len(ves) == 0 {
		t.Fatalf("expected a validation error for %#v", in)
	}
	return ves[0]
}

func TestAssert_StringLength(t *testing.T) {
	s := coerce.String().Length(2, 4)
	mustValidate(t, s, "abc")
	mustValidate(t, s, "日本語")

	ve := firstError(t, s, "a")
	if ve.Code != coerce.CodeTooShort || ve.Message != `String "a" failed minimum length check. (2)` {
		t.Fatalf("unexpected %s %q", ve.Code, ve.Message)
	}
	ve = firstError(t, s, "abcde")
	if ve.Code != coerce.CodeTooLong {
		t.Fatalf("unexpected %s", ve.Code)
	}
	ve = firstError(t, coerce.String().Length(2, 4, "short", "long"), "abcde")
	if ve.Message != "long" {
		t.Fatalf("custom message ignored: %q", ve.Message)
	}
	mustValidate(t, coerce.String().MinLength(1), "unbounded upper length")
}

func TestAssert_Regex(t *testing.T) {
	s := coerce.String().Regex(regexp.MustCompile(`^[a-z]+$`))
	mustValidate(t, s, "abc")
	ve := firstError(t, s, "ABC")
	if ve.Code != coerce.CodePattern || ve.Message != `String "ABC" failed regular expression check. (^[a-z]+$)` {
		t.Fatalf("unexpected %s %q", ve.Code, ve.Message)
	}
	ve = firstError(t, coerce.String().Expression(`^\d+$`, "digits only"), "x")
	if ve.Message != "digits only" {
		t.Fatalf("unexpected %q", ve.Message)
	}
}

func TestAssert_UUID(t *testing.T) {
	s := coerce.String().UUID()
	mustValidate(t, s, "6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	if ve := firstError(t, s, "not-a-uuid"); ve.Code != coerce.CodeInvalidFormat {
		t.Fatalf("unexpected %s", ve.Code)
	}
}

func TestAssert_NumberBounds(t *testing.T) {
	s := coerce.Number().Clamp(0, 10)
	mustValidate(t, s, "5")
	if ve := firstError(t, s, -1); ve.Code != coerce.CodeTooSmall || ve.Message != "Number -1 failed minimum check. (0)" {
		t.Fatalf("unexpected %s %q", ve.Code, ve.Message)
	}
	if ve := firstError(t, s, 11); ve.Code != coerce.CodeTooBig || ve.Message != "Number 11 failed maximum check. (10)" {
		t.Fatalf("unexpected %s %q", ve.Code, ve.Message)
	}
}

func TestAssert_Integer(t *testing.T) {
	mustValidate(t, coerce.Number().Integer(), "42")
	ve := firstError(t, coerce.Number().Integer(), 1.5)
	if ve.Code != coerce.CodeInvalidFormat || ve.Message != "Number 1.5 is not an integer." {
		t.Fatalf("unexpected %s %q", ve.Code, ve.Message)
	}
}

func TestAssert_ValidNumber(t *testing.T) {
	mustValidate(t, coerce.Number().ValidNumber(false), 1)
	mustValidate(t, coerce.Number().ValidNumber(true), math.NaN())
	ve := firstError(t, coerce.Number().ValidNumber(false), "NaN")
	if ve.Code != coerce.CodeNotANumber || ve.Message != "Number NaN failed not a number check. (Requires valid number)" {
		t.Fatalf("unexpected %s %q", ve.Code, ve.Message)
	}
}

func TestAssert_DateRanges(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	opts := coerce.Options{Now: func() time.Time { return now }}
	limit := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mustValidate(t, coerce.Date().Before(limit), "2024-12-31", opts)
	mustValidate(t, coerce.Date().After(limit), "2025-01-02", opts)
	ve := firstError(t, coerce.Date().Before(limit), "2025-01-02", opts)
	want := `Date "2025-01-02T00:00:00.000Z" failed check. (Must be before 2025-01-01T00:00:00.000Z)`
	if ve.Code != coerce.CodeDateRange || ve.Message != want {
		t.Fatalf("unexpected %s %q", ve.Code, ve.Message)
	}

	mustValidate(t, coerce.Date().MoreThanAgo(24*time.Hour), "2025-05-01", opts)
	mustValidate(t, coerce.Date().LessThanAgo(24*time.Hour), "2025-05-31T12:00:00Z", opts)
	if ve := firstError(t, coerce.Date().LessThanAgo(time.Hour), "2025-05-01", opts); ve.Code != coerce.CodeDateRange {
		t.Fatalf("unexpected %s", ve.Code)
	}
}

func TestAssert_WrongKindIsInvalidSchema(t *testing.T) {
	ve := firstError(t, coerce.Number().Length(1, 2), 5)
	if ve.Code != coerce.CodeInvalidSchema {
		t.Fatalf("unexpected %s", ve.Code)
	}
}
