package coerce

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Decode validates source against s and binds the model to a T. Object
// models bind to structs by json tag name.
func Decode[T any](s *Schema, source any, opts ...Options) (T, error) {
	var out T
	err := ValidateInto(s, source, &out, opts...)
	return out, err
}

// ValidateInto validates source against s and decodes the model into dst,
// which must be a non-nil pointer. An Undefined model leaves dst untouched.
func ValidateInto(s *Schema, source any, dst any, opts ...Options) error {
	if rv := reflect.ValueOf(dst); rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("coerce: ValidateInto requires a non-nil pointer, got %T", dst)
	}
	model, err := s.Validate(source, opts...)
	if err != nil {
		return err
	}
	if !IsPresent(model) {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  dst,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			timeToStringHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(model); err != nil {
		return fmt.Errorf("coerce: bind model: %w", err)
	}
	return nil
}

// timeToStringHook lets Date models bind to string fields.
func timeToStringHook(from, to reflect.Type, data any) (any, error) {
	if from != timeType || to.Kind() != reflect.String {
		return data, nil
	}
	return data.(time.Time).UTC().Format(time.RFC3339Nano), nil
}
