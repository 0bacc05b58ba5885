package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	msg := T(Convert, map[string]string{"from": "object", "to": "number"})
	if msg != "Unable to convert object to number." {
		t.Fatalf("unexpected english message: %q", msg)
	}

	SetLanguage("ja")
	defer SetLanguage("en")
	if msg := T(Convert, map[string]string{"from": "object", "to": "number"}); msg == "Unable to convert object to number." {
		t.Fatalf("expected japanese message, got %q", msg)
	}
}

func TestTranslator_UnknownKeyFallsBackToKey(t *testing.T) {
	if got := T("no_such_key", nil); got != "no_such_key" {
		t.Fatalf("got %q", got)
	}
}

type upper struct{}

func (upper) Message(key string, data map[string]string) string { return "X:" + key }

func TestSetTranslator_CustomAndReset(t *testing.T) {
	SetTranslator(upper{})
	if got := T(Missing, nil); got != "X:missing" {
		t.Fatalf("got %q", got)
	}
	SetTranslator(nil)
	if got := T(MissingRoot, map[string]string{"type": "string"}); got != "Missing required string." {
		t.Fatalf("got %q", got)
	}
}

func TestExpand_LeavesUnknownPlaceholders(t *testing.T) {
	got := Expand("{a} and {b}", map[string]string{"a": "1"})
	if got != "1 and {b}" {
		t.Fatalf("got %q", got)
	}
}
