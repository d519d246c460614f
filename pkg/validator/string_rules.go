package validator

import (
	"regexp"
	"slices"
	"sync"
)

var alphanumericRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// Required fails for nil and for the empty string. Whitespace counts as a value.
func Required(value any, _ Params) bool {
	if value == nil {
		return false
	}
	if s, ok := toString(value); ok {
		return s != ""
	}
	_, ok := typeOf(value)
	return ok
}

// MinLength checks the rune count of a string, or the size of an array or
// object, against params["min"].
func MinLength(value any, params Params) bool {
	limit, ok := params.Int("min")
	if !ok {
		return true
	}
	n, ok := length(value)
	return ok && n >= limit
}

// MaxLength is the upper-bound counterpart of MinLength, using params["max"].
func MaxLength(value any, params Params) bool {
	limit, ok := params.Int("max")
	if !ok {
		return true
	}
	n, ok := length(value)
	return ok && n <= limit
}

var patternCache sync.Map // pattern string -> *regexp.Regexp

// Pattern matches a string against the regular expression in params["pattern"].
// An invalid expression fails the rule.
func Pattern(value any, params Params) bool {
	expr, ok := params.String("pattern")
	if !ok {
		return true
	}
	s, ok := toString(value)
	if !ok {
		return false
	}

	var re *regexp.Regexp
	if cached, ok := patternCache.Load(expr); ok {
		re = cached.(*regexp.Regexp)
	} else {
		compiled, err := regexp.Compile(expr)
		if err != nil {
			return false
		}
		patternCache.Store(expr, compiled)
		re = compiled
	}
	return re.MatchString(s)
}

// OneOf checks that the value's string form is listed in params["values"].
func OneOf(value any, params Params) bool {
	allowed := params.Strings("values")
	if allowed == nil || value == nil {
		return false
	}
	return slices.Contains(allowed, formatParam(value))
}

// Alphanumeric accepts non-empty ASCII letters and digits only.
func Alphanumeric(value any, _ Params) bool {
	s, ok := toString(value)
	return ok && alphanumericRegex.MatchString(s)
}
