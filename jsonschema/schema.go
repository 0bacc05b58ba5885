package jsonschema

// Schema is the JSON Schema (draft-07) document produced by Render. It
// describes validated models, not raw input: fields that always appear in
// a model are listed as required and plain objects forbid extra keys.
type Schema struct {
	SchemaURI   string `json:"$schema,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	// Core
	Type    string `json:"type,omitempty"`
	Format  string `json:"format,omitempty"`
	Default any    `json:"default,omitempty"`
	Const   any    `json:"const,omitempty"`
	Enum    []any  `json:"enum,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array. Items is a *Schema for arrays and a []*Schema for tuples.
	Items    any  `json:"items,omitempty"`
	MinItems *int `json:"minItems,omitempty"`
	MaxItems *int `json:"maxItems,omitempty"`

	// Union
	OneOf []*Schema `json:"oneOf,omitempty"`
}

// Draft07 is the $schema URI set on rendered root documents.
const Draft07 = "http://json-schema.org/draft-07/schema#"
