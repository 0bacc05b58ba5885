package coerce_test

import (
	"testing"
	"time"

	"github.com/reoring/coerce"
)

type profile struct {
	Name    string    `json:"name"`
	Age     int       `json:"age"`
	Joined  time.Time `json:"joined"`
	Tags    []string  `json:"tags"`
	Address struct {
		City string `json:"city"`
	} `json:"address"`
}

func profileSchema() *coerce.Schema {
	return coerce.Object(map[string]*coerce.Schema{
		"name":   coerce.String(),
		"age":    coerce.Number().Min(0),
		"joined": coerce.Date(),
		"tags":   coerce.Array(coerce.String()).Default([]any{}),
		"address": coerce.Object(map[string]*coerce.Schema{
			"city": coerce.String().Default("unknown"),
		}),
	})
}

func TestDecode_BindsModelToStruct(t *testing.T) {
	src := map[string]any{
		"name":    "ada",
		"age":     "36",
		"joined":  "2025-01-02T03:04:05Z",
		"tags":    []any{"x", 1},
		"address": map[string]any{},
	}
	p, err := coerce.Decode[profile](profileSchema(), src)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "ada" || p.Age != 36 || p.Address.City != "unknown" {
		t.Fatalf("unexpected %+v", p)
	}
	if !p.Joined.Equal(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Fatalf("joined %v", p.Joined)
	}
	if len(p.Tags) != 2 || p.Tags[1] != "1" {
		t.Fatalf("tags %v", p.Tags)
	}
}

func TestDecode_ReturnsValidationErrors(t *testing.T) {
	_, err := coerce.Decode[profile](profileSchema(), map[string]any{"name": "ada"})
	if _, ok := coerce.AsTopLevel(err); !ok {
		t.Fatalf("expected TopLevelValidationError, got %v", err)
	}
}

func TestValidateInto_RequiresPointer(t *testing.T) {
	var p profile
	if err := coerce.ValidateInto(profileSchema(), map[string]any{}, p); err == nil {
		t.Fatalf("expected error for non-pointer destination")
	}
}
