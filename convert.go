package coerce

import (
	"encoding/json"
	"log/slog"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"time"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/coerce/codec"
	"github.com/reoring/coerce/i18n"
)

func conversionError(v any, to Type, p *Pass) error {
	return p.Fail(CodeIncorrectType, i18n.T(i18n.Convert, map[string]string{
		"from": TypeName(v),
		"to":   to.String(),
	}))
}

func convertString(v any, p *Pass) (any, error) {
	switch TypeOf(v) {
	case TypeNumber:
		switch n := v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return fmtInteger(n), nil
		}
		f, _ := toFloat(v)
		return codec.FormatNumber(f), nil
	case TypeBoolean:
		return strconv.FormatBool(reflect.ValueOf(v).Bool()), nil
	case TypeDate:
		t, _ := toTime(v)
		return codec.FormatISO(t), nil
	case TypeNull:
		return "null", nil
	case TypeBigInt:
		return v.(*big.Int).String(), nil
	}
	return Undefined, conversionError(v, TypeString, p)
}

func fmtInteger(v any) string {
	rv := reflect.ValueOf(v)
	if rv.CanInt() {
		return strconv.FormatInt(rv.Int(), 10)
	}
	return strconv.FormatUint(rv.Uint(), 10)
}

func convertNumber(v any, p *Pass) (any, error) {
	switch TypeOf(v) {
	case TypeBigInt:
		f, _ := new(big.Float).SetInt(v.(*big.Int)).Float64()
		return f, nil
	case TypeString:
		f, err := codec.ParseNumber(reflect.ValueOf(v).String())
		if err != nil {
			return Undefined, conversionError(v, TypeNumber, p)
		}
		return f, nil
	case TypeBoolean:
		if reflect.ValueOf(v).Bool() {
			return float64(1), nil
		}
		return float64(0), nil
	case TypeDate:
		t, _ := toTime(v)
		return float64(t.UnixMilli()), nil
	case TypeNull:
		return float64(0), nil
	}
	return Undefined, conversionError(v, TypeNumber, p)
}

func convertBoolean(v any, p *Pass) (any, error) {
	switch TypeOf(v) {
	case TypeNumber:
		f, _ := toFloat(v)
		// NaN is falsy
		return f != 0 && f == f, nil
	case TypeString:
		s := reflect.ValueOf(v).String()
		switch s {
		case "false", "no", "off":
			return false, nil
		}
		return s != "", nil
	case TypeNull:
		return false, nil
	}
	return Undefined, conversionError(v, TypeBoolean, p)
}

// maxDateMillis bounds the representable Date range in Unix milliseconds.
const maxDateMillis = 8.64e15

func convertDate(v any, p *Pass) (any, error) {
	switch TypeOf(v) {
	case TypeString:
		s := reflect.ValueOf(v).String()
		if s == "now" {
			return p.Now(), nil
		}
		t, err := codec.ParseDate(s)
		if err != nil {
			return Undefined, conversionError(v, TypeDate, p)
		}
		return t, nil
	case TypeNumber:
		f, _ := toFloat(v)
		// NaN, infinities and milliseconds outside ±100,000,000 days
		if f != f || math.IsInf(f, 0) || math.Abs(f) > maxDateMillis {
			return Undefined, conversionError(v, TypeDate, p)
		}
		return time.UnixMilli(int64(f)).UTC(), nil
	}
	return Undefined, conversionError(v, TypeDate, p)
}

// convertObject turns Go structs into maps through their JSON encoding, so
// json tags, omitempty and embedded structs behave as they do on the wire.
// Nested time.Time values arrive as RFC 3339 strings.
func convertObject(v any, p *Pass) (any, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		var out map[string]any
		b, err := gojson.Marshal(rv.Interface())
		if err == nil {
			err = gojson.Unmarshal(b, &out)
		}
		if err == nil && out != nil {
			return out, nil
		}
		if err != nil {
			logDebug(p, "coerce: struct conversion failed", slog.String("err", err.Error()))
		}
	}
	return Undefined, conversionError(v, TypeObject, p)
}

// convertArray wraps a bare string; every other non-array is rejected.
func convertArray(v any, p *Pass) (any, error) {
	if TypeOf(v) == TypeString {
		return []any{reflect.ValueOf(v).String()}, nil
	}
	return Undefined, conversionError(v, TypeArray, p)
}

// Primitive checks normalize named and sized Go types to the canonical model
// representation: string, float64, bool, time.Time.

func checkString(v any, p *Pass) (any, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	rv := reflect.ValueOf(v)
	if v != nil && rv.Kind() == reflect.String {
		return rv.String(), nil
	}
	return Undefined, conversionError(v, TypeString, p)
}

func checkNumber(v any, p *Pass) (any, error) {
	if f, ok := toFloat(v); ok {
		return f, nil
	}
	return Undefined, conversionError(v, TypeNumber, p)
}

func checkBoolean(v any, p *Pass) (any, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	rv := reflect.ValueOf(v)
	if v != nil && rv.Kind() == reflect.Bool {
		return rv.Bool(), nil
	}
	return Undefined, conversionError(v, TypeBoolean, p)
}

func checkDate(v any, p *Pass) (any, error) {
	if t, ok := toTime(v); ok {
		return t, nil
	}
	return Undefined, conversionError(v, TypeDate, p)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case nil:
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanFloat():
		return rv.Float(), true
	case rv.CanInt():
		return float64(rv.Int()), true
	case rv.CanUint():
		return float64(rv.Uint()), true
	}
	return 0, false
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t != nil {
			return *t, true
		}
		return time.Time{}, false
	case nil:
		return time.Time{}, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Struct && rv.Type().ConvertibleTo(timeType) {
		return rv.Convert(timeType).Interface().(time.Time), true
	}
	return time.Time{}, false
}

// toObject returns v as map[string]any, copying maps with other value types.
func toObject(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if v == nil || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// toArray returns v as []any, copying other slice and array types.
func toArray(v any) ([]any, bool) {
	if a, ok := v.([]any); ok {
		return a, true
	}
	rv := reflect.ValueOf(v)
	if v == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
