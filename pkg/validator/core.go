package validator

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents a single failed rule or type mismatch.
type ValidationError struct {
	Message           string         `json:"message"`
	Rule              string         `json:"rule,omitempty"`
	Field             string         `json:"field,omitempty"`
	TranslationKey    string         `json:"-"`
	TranslationValues map[string]any `json:"-"`
}

// ValidationErrors represents an ordered collection of validation errors.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		if err.Field == "" {
			parts = append(parts, err.Message)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (ve *ValidationErrors) Add(err ValidationError) {
	*ve = append(*ve, err)
}

func (ve ValidationErrors) Has(field string) bool {
	for _, err := range ve {
		if err.Field == field {
			return true
		}
	}
	return false
}

func (ve ValidationErrors) Get(field string) []string {
	var messages []string
	for _, err := range ve {
		if err.Field == field {
			messages = append(messages, err.Message)
		}
	}
	return messages
}

func (ve ValidationErrors) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, err := range ve {
		if !seen[err.Field] {
			fields = append(fields, err.Field)
			seen[err.Field] = true
		}
	}
	return fields
}

func (ve ValidationErrors) IsEmpty() bool {
	return len(ve) == 0
}

// Result is the outcome of validating a value against a schema.
// Valid is true exactly when Errors is empty.
type Result struct {
	Valid  bool             `json:"valid"`
	Errors ValidationErrors `json:"errors"`
}

func newResult(errs ValidationErrors) Result {
	if errs == nil {
		errs = ValidationErrors{}
	}
	return Result{Valid: len(errs) == 0, Errors: errs}
}

// Err returns nil for a valid result and the collected ValidationErrors otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return r.Errors
}

// ExtractValidationErrors extracts ValidationErrors from an error.
func ExtractValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var validationErr ValidationErrors
	if errors.As(err, &validationErr) {
		return validationErr
	}

	return nil
}

func IsValidationError(err error) bool {
	if err == nil {
		return false
	}

	var validationErr ValidationErrors
	return errors.As(err, &validationErr)
}
