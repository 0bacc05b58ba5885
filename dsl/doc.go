// Package dsl provides the terse builder namespace for coerce schemas.
//
// Overview
//   - Leaves: String()/Number()/Bool()/Date()/Any()/Const(v)/Enum(...).
//   - Composites: ObjectOf(Fields{...}), Lenient(Fields{...}), Map(elem), Array(elem), Tuple(...).
//   - Unions: OrSet(Members(...)) or a discriminated Object().Discriminator(key).OneOf(Variant(...)).
//   - Builder: Object().Field(name, s).Required()/Optional()/Default(v) ... Refine(...).Build().
//
// Every helper returns an immutable *coerce.Schema, so results can be shared
// and further refined with the fluent methods of coerce.Schema.
//
// Example (quickstart)
//
//	user := dsl.Object().
//	    Field("id", dsl.String().UUID()).Required().
//	    Field("email", dsl.String().Expression(`@`)).Required().
//	    Field("age", dsl.Number().Min(0)).Optional().
//	    Field("active", dsl.Bool()).Default(true).
//	    MustBuild()
//	model, err := user.Validate(input)
//
// Example (discriminated union)
//
//	shape := dsl.Object().
//	    Discriminator("kind").
//	    OneOf(
//	        dsl.Variant("circle", dsl.ObjectOf(dsl.Fields{"r": dsl.Number()})),
//	        dsl.Variant("rect", dsl.ObjectOf(dsl.Fields{"w": dsl.Number(), "h": dsl.Number()})),
//	    ).
//	    MustBuild()
package dsl
