package validator

import (
	"encoding/json"
	"reflect"
)

// typeOf classifies a Go value into a schema Type.
// The second return is false for nil and for values with no schema equivalent
// (structs, channels, funcs).
func typeOf(value any) (Type, bool) {
	switch value.(type) {
	case nil:
		return "", false
	case string:
		return TypeString, true
	case bool:
		return TypeBoolean, true
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return TypeNumber, true
	case map[string]any:
		return TypeObject, true
	case []any:
		return TypeArray, true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return "", false
		}
		return typeOf(v.Elem().Interface())
	case reflect.String:
		return TypeString, true
	case reflect.Bool:
		return TypeBoolean, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return TypeNumber, true
	case reflect.Map:
		if v.Type().Key().Kind() == reflect.String {
			return TypeObject, true
		}
	case reflect.Slice, reflect.Array:
		return TypeArray, true
	}
	return "", false
}

// matchesType reports whether value's runtime classification equals t.
func matchesType(value any, t Type) bool {
	got, ok := typeOf(value)
	return ok && got == t
}

// property returns the value stored under key in an object value.
// Missing keys yield nil.
func property(obj any, key string) any {
	if m, ok := obj.(map[string]any); ok {
		return m[key]
	}
	v := reflect.Indirect(reflect.ValueOf(obj))
	if v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
		return nil
	}
	elem := v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
	if !elem.IsValid() {
		return nil
	}
	return elem.Interface()
}

// elements returns the items of an array value.
func elements(arr any) []any {
	if s, ok := arr.([]any); ok {
		return s
	}
	v := reflect.Indirect(reflect.ValueOf(arr))
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, v.Len())
	for i := range out {
		out[i] = v.Index(i).Interface()
	}
	return out
}

// length returns the rune count of a string, or the size of an array or object.
// ok is false for other values.
func length(value any) (int, bool) {
	switch val := value.(type) {
	case string:
		return len([]rune(val)), true
	case []any:
		return len(val), true
	case map[string]any:
		return len(val), true
	}
	v := reflect.Indirect(reflect.ValueOf(value))
	switch v.Kind() {
	case reflect.String:
		return len([]rune(v.String())), true
	case reflect.Slice, reflect.Array, reflect.Map:
		return v.Len(), true
	}
	return 0, false
}

// toFloat converts any numeric value to float64.
func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	v := reflect.Indirect(reflect.ValueOf(value))
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	return 0, false
}

// toString returns the string form of a string-kinded value.
func toString(value any) (string, bool) {
	if s, ok := value.(string); ok {
		return s, true
	}
	v := reflect.Indirect(reflect.ValueOf(value))
	if v.Kind() == reflect.String {
		return v.String(), true
	}
	return "", false
}
