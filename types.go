package coerce

import (
	"encoding/json"
	"math/big"
	"reflect"
	"time"
)

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined marks an absent value. It is distinct from nil, which is a
// present null.
var Undefined any = undefined{}

// IsPresent reports whether v is anything other than Undefined.
func IsPresent(v any) bool {
	_, absent := v.(undefined)
	return !absent
}

// Type is the runtime type tag of a value, also declared by every schema.
type Type uint8

const (
	TypeUndefined Type = iota
	TypeNull
	TypeString
	TypeNumber
	TypeBigInt
	TypeBoolean
	TypeDate
	TypeObject
	TypeArray
	TypeOrSet // placeholder declared by OrSet schemas
	TypeAny   // declared by Any schemas; never produced by TypeOf
	TypeOther // any other nominal Go type, see TypeName
)

var typeNames = [...]string{
	TypeUndefined: "undefined",
	TypeNull:      "null",
	TypeString:    "string",
	TypeNumber:    "number",
	TypeBigInt:    "bigint",
	TypeBoolean:   "boolean",
	TypeDate:      "Date",
	TypeObject:    "object",
	TypeArray:     "array",
	TypeOrSet:     "OrSet",
	TypeAny:       "any",
	TypeOther:     "other",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

var (
	timeType      = reflect.TypeOf(time.Time{})
	bigIntPtrType = reflect.TypeOf((*big.Int)(nil))
)

// TypeOf classifies v into a Type tag.
func TypeOf(v any) Type {
	switch v.(type) {
	case undefined:
		return TypeUndefined
	case nil:
		return TypeNull
	case string:
		return TypeString
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		return TypeNumber
	case bool:
		return TypeBoolean
	case time.Time:
		return TypeDate
	case *time.Time:
		if v.(*time.Time) == nil {
			return TypeNull
		}
		return TypeDate
	case *big.Int:
		if v.(*big.Int) == nil {
			return TypeNull
		}
		return TypeBigInt
	case map[string]any:
		return TypeObject
	case []any:
		return TypeArray
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return TypeString
	case reflect.Bool:
		return TypeBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return TypeNumber
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return TypeObject
		}
	case reflect.Slice, reflect.Array:
		return TypeArray
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return TypeNull
		}
		if rv.Type() == bigIntPtrType {
			return TypeBigInt
		}
	case reflect.Struct:
		if rv.Type() == timeType || rv.Type().ConvertibleTo(timeType) {
			return TypeDate
		}
	}
	return TypeOther
}

// TypeName returns the tag of v, or its nominal Go type name when the tag
// is TypeOther.
func TypeName(v any) string {
	t := TypeOf(v)
	if t != TypeOther {
		return t.String()
	}
	rt := reflect.TypeOf(v)
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Name() != "" {
		return rt.Name()
	}
	return rt.String()
}

// Kind identifies the node variant of a Schema.
type Kind uint8

const (
	KindString Kind = iota
	KindNumber
	KindBoolean
	KindDate
	KindAny
	KindConstant
	KindEnumeration
	KindObject
	KindLenientObject
	KindDynamicObject
	KindArray
	KindTuple
	KindOrSet
)

var kindNames = [...]string{
	KindString:        "String",
	KindNumber:        "Number",
	KindBoolean:       "Boolean",
	KindDate:          "Date",
	KindAny:           "Any",
	KindConstant:      "Constant",
	KindEnumeration:   "Enumeration",
	KindObject:        "Object",
	KindLenientObject: "LenientObject",
	KindDynamicObject: "DynamicObject",
	KindArray:         "Array",
	KindTuple:         "Tuple",
	KindOrSet:         "OrSet",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// declaredType is resolved once per kind; Constant schemas derive theirs
// from the configured value instead.
var declaredType = [...]Type{
	KindString:        TypeString,
	KindNumber:        TypeNumber,
	KindBoolean:       TypeBoolean,
	KindDate:          TypeDate,
	KindAny:           TypeAny,
	KindConstant:      TypeOther,
	KindEnumeration:   TypeString,
	KindObject:        TypeObject,
	KindLenientObject: TypeObject,
	KindDynamicObject: TypeObject,
	KindArray:         TypeArray,
	KindTuple:         TypeArray,
	KindOrSet:         TypeOrSet,
}
