package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/coerce"
	"github.com/reoring/coerce/rules"
)

func orderSchema() *coerce.Schema {
	item := coerce.Object(map[string]*coerce.Schema{
		"sku": coerce.String(),
		"qty": coerce.Number(),
	})
	return coerce.Object(map[string]*coerce.Schema{
		"items":  coerce.Array(item),
		"status": coerce.String(),
		"note":   coerce.String().Optional(),
	})
}

func issues(t *testing.T, err error) []coerce.Issue {
	t.Helper()
	iss, ok := coerce.AsIssues(err)
	require.True(t, ok, "expected issues, got %v", err)
	return iss
}

func TestUniqueBy_ReportsDuplicatePosition(t *testing.T) {
	s := orderSchema().Custom(rules.UniqueBy("/items", "sku"))
	_, err := s.Validate(map[string]any{
		"status": "open",
		"items": []any{
			map[string]any{"sku": "a", "qty": 1},
			map[string]any{"sku": "b", "qty": 1},
			map[string]any{"sku": "a", "qty": 2},
		},
	})
	iss := issues(t, err)
	require.Len(t, iss, 1)
	assert.Equal(t, coerce.CodeUniqueness, iss[0].Code)
	assert.Equal(t, "/items/2/sku", iss[0].Path)
	assert.Equal(t, "Duplicate value a (first seen at index 0).", iss[0].Message)
}

func TestUniqueBy_CollectsEveryDuplicate(t *testing.T) {
	s := coerce.Array(coerce.String()).Custom(rules.Unique())
	_, err := s.Validate([]any{"x", "x", "y", "x"}, coerce.Options{CollectErrors: true})
	iss := issues(t, err)
	require.Len(t, iss, 2)
	assert.Equal(t, "/1", iss[0].Path)
	assert.Equal(t, "/3", iss[1].Path)

	_, err = s.Validate([]any{"x", "y"})
	assert.NoError(t, err)
}

func TestAtLeastOne(t *testing.T) {
	s := orderSchema().Custom(rules.AtLeastOne("/items"))
	_, err := s.Validate(map[string]any{"status": "open", "items": []any{}})
	iss := issues(t, err)
	require.Len(t, iss, 1)
	assert.Equal(t, coerce.CodeTooShort, iss[0].Code)
	assert.Equal(t, "/items", iss[0].Path)
}

func TestNonEmptyAndItemCount(t *testing.T) {
	_, err := coerce.String().Custom(rules.NonEmpty()).Validate("")
	assert.Equal(t, coerce.CodeTooShort, issues(t, err)[0].Code)

	_, err = coerce.String().Custom(rules.NonEmpty("name required")).Validate("")
	assert.Equal(t, "name required", issues(t, err)[0].Message)

	s := coerce.Array(coerce.Number()).Custom(rules.ItemCount(1, 2))
	_, err = s.Validate([]any{1, 2, 3})
	iss := issues(t, err)
	assert.Equal(t, coerce.CodeTooLong, iss[0].Code)
	assert.Equal(t, "Expected at most 2 item(s), got 3.", iss[0].Message)

	_, err = coerce.Array(coerce.Number()).Custom(rules.ItemCount(0, -1)).Validate([]any{})
	assert.NoError(t, err)
}

func TestRequireOneOf(t *testing.T) {
	s := coerce.Object(map[string]*coerce.Schema{
		"email": coerce.String().Optional(),
		"phone": coerce.String().Optional(),
	}).Custom(rules.RequireOneOf("email", "phone"))

	_, err := s.Validate(map[string]any{"email": "a@b"})
	require.NoError(t, err)

	_, err = s.Validate(map[string]any{"email": "a@b", "phone": "1"})
	iss := issues(t, err)
	assert.Equal(t, coerce.CodeBusinessRule, iss[0].Code)
	assert.Equal(t, "Exactly one of email, phone must be set.", iss[0].Message)

	_, err = s.Validate(map[string]any{})
	assert.Error(t, err)

	anyOf := coerce.Object(map[string]*coerce.Schema{
		"email": coerce.String().Optional(),
		"phone": coerce.String().Optional(),
	}).Custom(rules.RequireAnyOf("email", "phone"))
	_, err = anyOf.Validate(map[string]any{"email": "a@b", "phone": "1"})
	assert.NoError(t, err)
	_, err = anyOf.Validate(map[string]any{})
	assert.Error(t, err)
}

func TestIfThen(t *testing.T) {
	s := orderSchema().Custom(
		rules.If("/status", rules.Eq, "shipped").Then(rules.AtLeastOne("/items")),
	)
	_, err := s.Validate(map[string]any{"status": "draft", "items": []any{}})
	require.NoError(t, err)
	_, err = s.Validate(map[string]any{"status": "shipped", "items": []any{}})
	require.Error(t, err)

	big := rules.If("/items/0/qty", rules.Gt, 10).And(rules.If("/status", rules.Ne, "bulk"))
	s = orderSchema().Custom(big.Then(rules.RequireAnyOf("note")))
	_, err = s.Validate(map[string]any{
		"status": "open",
		"items":  []any{map[string]any{"sku": "a", "qty": "11"}},
	})
	iss := issues(t, err)
	assert.Equal(t, "/", iss[0].Path)

	_, err = s.Validate(map[string]any{
		"status": "bulk",
		"items":  []any{map[string]any{"sku": "a", "qty": 11}},
	})
	assert.NoError(t, err)

	either := rules.IfAny(rules.If("/status", rules.Eq, "a"), rules.If("/status", rules.Eq, "b"))
	s = orderSchema().Custom(either.Then(rules.AtLeastOne("/items")))
	_, err = s.Validate(map[string]any{"status": "b", "items": []any{}})
	assert.Error(t, err)
}

func TestAll_CollectModeRunsEveryHook(t *testing.T) {
	s := coerce.Object(map[string]*coerce.Schema{
		"a": coerce.Array(coerce.Number()),
		"b": coerce.Array(coerce.Number()),
	}).Custom(rules.All(rules.AtLeastOne("/a"), rules.AtLeastOne("/b")))

	_, err := s.Validate(map[string]any{"a": []any{}, "b": []any{}}, coerce.Options{CollectErrors: true})
	assert.Len(t, issues(t, err), 2)

	_, err = s.Validate(map[string]any{"a": []any{}, "b": []any{}})
	assert.Len(t, issues(t, err), 1)
}
