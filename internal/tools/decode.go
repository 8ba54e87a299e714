package tools

import (
	"fmt"
	"math"
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"evalgo.org/megacloud-mcp/internal/errdefs"
)

// decode copies the argument bag onto out, which already holds the defaults.
func decode(raw map[string]interface{}, out interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.DecodeHookFuncType(strictScalars),
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// strictScalars narrows weak typing to numeric strings: fractions never
// become integers and booleans never become numbers or strings.
func strictScalars(from, to reflect.Type, data interface{}) (interface{}, error) {
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch from.Kind() {
		case reflect.Bool:
			return nil, fmt.Errorf("expected an integer, got %v", data)
		case reflect.Float32, reflect.Float64:
			if f := reflect.ValueOf(data).Float(); f != math.Trunc(f) {
				return nil, fmt.Errorf("expected an integer, got %v", data)
			}
		}
	case reflect.Float32, reflect.Float64:
		if from.Kind() == reflect.Bool {
			return nil, fmt.Errorf("expected a number, got %v", data)
		}
	case reflect.String:
		if from.Kind() == reflect.Bool {
			return nil, fmt.Errorf("expected a string, got %v", data)
		}
	}
	return data, nil
}

// decodeFieldErrors lists every field mapstructure failed to decode.
func decodeFieldErrors(err error) []errdefs.FieldError {
	var fields []errdefs.FieldError

	var walk func(error)
	walk = func(err error) {
		switch e := err.(type) {
		case *mapstructure.DecodeError:
			field := e.Name()
			if field == "" {
				field = "arguments"
			}
			fields = append(fields, errdefs.FieldError{Field: field, Message: e.Unwrap().Error()})
		case interface{ Unwrap() []error }:
			for _, inner := range e.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(e.Unwrap())
		}
	}
	walk(err)

	if len(fields) == 0 {
		return []errdefs.FieldError{{Field: "arguments", Message: err.Error()}}
	}
	return fields
}
