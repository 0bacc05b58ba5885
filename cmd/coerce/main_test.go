package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userSchema = `
type: object
required: [name, age]
properties:
  name: {type: string, minLength: 1}
  age: {type: integer, minimum: 0}
  admin: {type: boolean, default: false}
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestValidate_PrintsCoercedModel(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "user.yaml", userSchema)
	doc := writeFile(t, dir, "ada.yaml", "name: ada\nage: '36'\nextra: x\n")

	out, _, err := execute(t, "", "validate", "--schema", schema, doc)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, map[string]any{"name": "ada", "age": float64(36), "admin": false}, got)
}

func TestValidate_StdinFailuresListed(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "user.yaml", userSchema)

	out, errOut, err := execute(t, `{"age": -1}`, "validate", "-s", schema)
	require.Error(t, err)
	assert.Empty(t, out)
	assert.Contains(t, err.Error(), "1 of 1 document(s) failed validation")
	assert.Contains(t, errOut, "-: 2 error(s)")
	assert.Contains(t, errOut, "/age [too_small]")
	assert.Contains(t, errOut, "/name [missing]")
}

func TestValidate_QuietAndFormatFlag(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "user.yaml", userSchema)
	out, _, err := execute(t, "name: x\nage: 1\n", "validate", "-s", schema, "-f", "yaml", "-q")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestValidate_RequiresSchema(t *testing.T) {
	_, _, err := execute(t, "{}", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--schema is required")
}

func TestValidate_ComponentFromDocument(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "api.yaml", `
openapi: 3.0.3
info: {title: t, version: "1"}
paths: {}
components:
  schemas:
    Tag:
      type: object
      required: [label]
      properties:
        label: {type: string}
`)
	out, _, err := execute(t, `{"label": 7}`, "validate", "-s", doc, "-c", "Tag")
	require.NoError(t, err)
	assert.JSONEq(t, `{"label": "7"}`, out)
}

func TestJSONSchema_Export(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "user.yaml", userSchema)
	out, _, err := execute(t, "", "jsonschema", "-s", schema)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "object", doc["type"])
	assert.ElementsMatch(t, []any{"admin", "age", "name"}, doc["required"])
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "coerce version "))
}

func TestValidate_StrictRejectsDuplicateKeys(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "user.yaml", userSchema)
	doc := `{"name": "a", "age": 1, "name": "b"}`

	_, _, err := execute(t, doc, "validate", "-s", schema)
	require.NoError(t, err)

	_, errOut, err := execute(t, doc, "validate", "-s", schema, "--strict")
	require.Error(t, err)
	assert.Contains(t, errOut, "/ [duplicate_key]")
}

func TestValidate_MetricsFile(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "user.yaml", userSchema)
	good := writeFile(t, dir, "good.json", `{"name": "a", "age": 1}`)
	bad := writeFile(t, dir, "bad.json", `{"name": "a", "age": -1}`)
	prom := filepath.Join(dir, "coerce.prom")

	_, _, err := execute(t, "", "validate", "-s", schema, "-q", "--metrics-file", prom, good, bad)
	require.Error(t, err)

	b, err := os.ReadFile(prom)
	require.NoError(t, err)
	text := string(b)
	assert.Contains(t, text, `coerce_validations_total{kind="Object",result="success"} 1`)
	assert.Contains(t, text, `coerce_validations_total{kind="Object",result="failure"} 1`)
	assert.Contains(t, text, `coerce_validation_errors_total{code="too_small"} 1`)
}
