package validator

import (
	"fmt"
	"strconv"
)

// Float returns the numeric param under key.
// String params holding a number are accepted since schema files may quote them.
func (p Params) Float(key string) (float64, bool) {
	raw, ok := p[key]
	if !ok {
		return 0, false
	}
	if f, ok := toFloat(raw); ok {
		return f, true
	}
	if s, ok := raw.(string); ok {
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

// Int returns the integer param under key, truncating fractional values.
func (p Params) Int(key string) (int, bool) {
	f, ok := p.Float(key)
	return int(f), ok
}

// String returns the param under key formatted as a string.
func (p Params) String(key string) (string, bool) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return "", false
	}
	if s, ok := raw.(string); ok {
		return s, true
	}
	return fmt.Sprint(raw), true
}

// Bool returns the boolean param under key, or def when absent or malformed.
func (p Params) Bool(key string, def bool) bool {
	switch v := p[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// Strings returns the list param under key with each element formatted as a string.
func (p Params) Strings(key string) []string {
	items := elements(p[key])
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, fmt.Sprint(item))
	}
	return out
}
