package source_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/coerce"
	"github.com/reoring/coerce/source"
)

func TestJSON_KeepsNumbersPrecise(t *testing.T) {
	v, err := source.JSON([]byte(`{"id": 9007199254740993, "tags": ["a", 1]}`))
	require.NoError(t, err)
	m := v.(map[string]any)
	assert.Equal(t, json.Number("9007199254740993"), m["id"])
	assert.Equal(t, []any{"a", json.Number("1")}, m["tags"])
}

func TestJSON_EmptyIsUndefined(t *testing.T) {
	v, err := source.JSON([]byte("  \n"))
	require.NoError(t, err)
	assert.False(t, coerce.IsPresent(v))

	v, err = source.JSON([]byte("null"))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestJSON_Errors(t *testing.T) {
	_, err := source.JSON([]byte(`{"a":`))
	require.Error(t, err)

	_, err = source.JSON([]byte(`1 2`))
	assert.ErrorIs(t, err, source.ErrTrailingData)
}

func TestYAML_NormalizesKeys(t *testing.T) {
	v, err := source.YAML([]byte("name: ada\n1: one\nnested:\n  list: [1, two]\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":   "ada",
		"1":      "one",
		"nested": map[string]any{"list": []any{1, "two"}},
	}, v)
}

func TestYAML_EmptyIsUndefined(t *testing.T) {
	v, err := source.YAML(nil)
	require.NoError(t, err)
	assert.False(t, coerce.IsPresent(v))
}

func TestDecode_FeedsSchema(t *testing.T) {
	s := coerce.Object(map[string]*coerce.Schema{
		"age":  coerce.Number(),
		"tags": coerce.Array(coerce.String()),
	})
	for _, tc := range []struct {
		format source.Format
		doc    string
	}{
		{source.FormatJSON, `{"age": "36", "tags": ["x", 2]}`},
		{source.FormatYAML, "age: '36'\ntags: [x, 2]\n"},
	} {
		in, err := source.Decode(strings.NewReader(tc.doc), tc.format)
		require.NoError(t, err, tc.format.String())
		got, err := s.Validate(in)
		require.NoError(t, err, tc.format.String())
		assert.Equal(t, map[string]any{"age": float64(36), "tags": []any{"x", "2"}}, got, tc.format.String())
	}
}

func TestReadFile_UsesExtension(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "doc.yml")
	require.NoError(t, os.WriteFile(p, []byte("a: 1\n"), 0o600))
	v, err := source.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, v)

	_, err = source.ReadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestFormats(t *testing.T) {
	assert.Equal(t, source.FormatYAML, source.FormatFor("x.YAML"))
	assert.Equal(t, source.FormatJSON, source.FormatFor("x.txt"))
	f, err := source.ParseFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, source.FormatYAML, f)
	_, err = source.ParseFormat("toml")
	assert.Error(t, err)
}
