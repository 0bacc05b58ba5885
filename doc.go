package coerce

// Package coerce provides:
//
// - Schema-driven validation and coercion of loosely typed values (decoded JSON/YAML, maps, Go values)
// - A fixed, ordered pipeline per schema node: hooks, defaults, presence, conversion, checks
// - Path-qualified errors (ValidationError/TopLevelValidationError) and flat Issues
// - Fail-fast or collect-all error handling selected per call through Options
//
// Design policy:
// - Keep the public API in the root package; the terse builder lives in dsl/, document decoding in source/.
// - Schemas are immutable values: every modifier returns a new *Schema and never touches the receiver.
// - A validation call owns its Pass tree; schemas are safe to share across goroutines.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	s := coerce.Object(map[string]*coerce.Schema{
//		"name": coerce.String().Length(1, 64),
//		"age":  coerce.Number().Optional().Min(0),
//	})
//	model, err := s.Validate(map[string]any{"name": "ada", "age": "36"})
//	if tl, ok := coerce.AsTopLevel(err); ok {
//		for _, iss := range tl.Issues() {
//			fmt.Println(iss.Path, iss.Code, iss.Message)
//		}
//	}
//
// Absence is represented by Undefined; nil is a present JSON null.
