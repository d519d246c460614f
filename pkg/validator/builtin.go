package validator

import (
	"fmt"
	"strings"
)

// builtinRules is seeded into every new Engine.
var builtinRules = map[string]RuleFunc{
	"required":       Required,
	"email":          Email,
	"min":            Min,
	"max":            Max,
	"minLength":      MinLength,
	"maxLength":      MaxLength,
	"pattern":        Pattern,
	"oneOf":          OneOf,
	"alphanumeric":   Alphanumeric,
	"url":            URL,
	"uuid":           UUID,
	"strongPassword": StrongPassword,
}

var builtinMessages = map[string]string{
	"required":       "field is required",
	"email":          "must be a valid email address",
	"min":            "must be at least {min}",
	"max":            "must be at most {max}",
	"minLength":      "must be at least {min} characters long",
	"maxLength":      "must be at most {max} characters long",
	"pattern":        "must match pattern {pattern}",
	"oneOf":          "must be one of: {values}",
	"alphanumeric":   "must contain only letters and numbers",
	"url":            "must be a valid URL",
	"uuid":           "must be a valid UUID",
	"strongPassword": "password does not meet security requirements",
}

func registerBuiltins(e *Engine) {
	for name, fn := range builtinRules {
		e.rules.Add(name, fn)
	}
	for name, tpl := range builtinMessages {
		e.messages[name] = tpl
	}
}

// BuiltinRules returns the names of the rules every Engine starts with.
func BuiltinRules() []string {
	reg := NewRegistry[RuleFunc]()
	for name, fn := range builtinRules {
		reg.Add(name, fn)
	}
	return reg.Names()
}

// renderMessage substitutes {name} and {param} placeholders.
func renderMessage(tpl string, ref RuleRef) string {
	if !strings.Contains(tpl, "{") {
		return tpl
	}
	pairs := make([]string, 0, 2+2*len(ref.Params))
	pairs = append(pairs, "{name}", ref.Name)
	for k, v := range ref.Params {
		pairs = append(pairs, "{"+k+"}", formatParam(v))
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

func formatParam(v any) string {
	if items := elements(v); items != nil {
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(v)
}
