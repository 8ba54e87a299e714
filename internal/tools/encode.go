package tools

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// EmptyList is the single item produced for an empty list result.
const EmptyList = "[]"

// Encode turns a handler result into text items:
//
//   - a record (struct, pointer to struct or map) becomes one JSON text;
//   - a list becomes one item per element, records as JSON and other values
//     stringified; an empty list becomes EmptyList;
//   - a string is returned as is and json.RawMessage as its text;
//   - anything else becomes one stringified item.
func Encode(v interface{}) ([]string, error) {
	switch x := v.(type) {
	case nil:
		return []string{"null"}, nil
	case string:
		return []string{x}, nil
	case json.RawMessage:
		if len(x) == 0 {
			return []string{"null"}, nil
		}
		return []string{string(x)}, nil
	case []byte:
		return []string{string(x)}, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		if rv.Len() == 0 {
			return []string{EmptyList}, nil
		}
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := encodeItem(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("encode item %d: %w", i, err)
			}
			out = append(out, item)
		}
		return out, nil
	}

	item, err := encodeItem(v)
	if err != nil {
		return nil, err
	}
	return []string{item}, nil
}

func encodeItem(v interface{}) (string, error) {
	switch x := v.(type) {
	case nil:
		return "null", nil
	case string:
		return x, nil
	case json.RawMessage:
		return string(x), nil
	}

	if !isRecord(reflect.TypeOf(v)) {
		return fmt.Sprint(v), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func isRecord(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		return true
	}
	return false
}
