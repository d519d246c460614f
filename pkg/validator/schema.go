package validator

import (
	"errors"
	"fmt"
)

// Type is the primitive type a schema node declares for its value.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeObject  Type = "object"
	TypeArray   Type = "array"
)

// Valid reports whether t is one of the known schema types.
func (t Type) Valid() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeObject, TypeArray:
		return true
	}
	return false
}

// Params are the named arguments forwarded to a rule function.
type Params map[string]any

// RuleRef references a rule by registry name.
// Message overrides the default failure text when set.
type RuleRef struct {
	Name    string `yaml:"name" json:"name"`
	Params  Params `yaml:"params,omitempty" json:"params,omitempty"`
	Message string `yaml:"message,omitempty" json:"message,omitempty"`
}

// Field is a named sub-schema of an object schema.
type Field struct {
	Name   string
	Schema Schema
}

// Fields keeps object fields in declaration order.
type Fields []Field

// Get returns the schema declared for name.
func (f Fields) Get(name string) (Schema, bool) {
	for _, fld := range f {
		if fld.Name == name {
			return fld.Schema, true
		}
	}
	return Schema{}, false
}

// Schema describes an expected value shape plus the rules it must satisfy.
// A Schema is read-only to the engine and safe to share between goroutines.
type Schema struct {
	Type       Type      `yaml:"type" json:"type"`
	Rules      []RuleRef `yaml:"rules,omitempty" json:"rules,omitempty"`
	AsyncRules []RuleRef `yaml:"asyncRules,omitempty" json:"asyncRules,omitempty"`
	Fields     Fields    `yaml:"fields,omitempty" json:"fields,omitempty"`
	Items      *Schema   `yaml:"items,omitempty" json:"items,omitempty"`
}

// Rule builds a RuleRef from a name and optional key/value params.
//
//	validator.Rule("min", "min", 18)
func Rule(name string, kv ...any) RuleRef {
	ref := RuleRef{Name: name}
	if len(kv) > 1 {
		ref.Params = make(Params, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			if key, ok := kv[i].(string); ok {
				ref.Params[key] = kv[i+1]
			}
		}
	}
	return ref
}

// WithMessage returns a copy of the reference with a custom failure message.
func (r RuleRef) WithMessage(msg string) RuleRef {
	r.Message = msg
	return r
}

// Check verifies the schema tree is structurally consistent: every node has a
// known type, fields only appear on objects and items only on arrays.
func (s Schema) Check() error {
	return s.check("")
}

func (s Schema) check(path string) error {
	at := path
	if at == "" {
		at = "<root>"
	}
	if !s.Type.Valid() {
		return fmt.Errorf("%w: %s: unknown type %q", ErrInvalidSchema, at, s.Type)
	}
	if len(s.Fields) > 0 && s.Type != TypeObject {
		return fmt.Errorf("%w: %s: fields declared on %s", ErrInvalidSchema, at, s.Type)
	}
	if s.Items != nil && s.Type != TypeArray {
		return fmt.Errorf("%w: %s: items declared on %s", ErrInvalidSchema, at, s.Type)
	}
	for _, refs := range [][]RuleRef{s.Rules, s.AsyncRules} {
		for _, ref := range refs {
			if ref.Name == "" {
				return fmt.Errorf("%w: %s: rule without name", ErrInvalidSchema, at)
			}
		}
	}

	seen := make(map[string]struct{}, len(s.Fields))
	var errs []error
	for _, fld := range s.Fields {
		if _, dup := seen[fld.Name]; dup {
			errs = append(errs, fmt.Errorf("%w: %s: duplicate field %q", ErrInvalidSchema, at, fld.Name))
			continue
		}
		seen[fld.Name] = struct{}{}
		if err := fld.Schema.check(joinPath(path, fld.Name)); err != nil {
			errs = append(errs, err)
		}
	}
	if s.Items != nil {
		if err := s.Items.check(path + "[]"); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
