package validator

import "errors"

var (
	// ErrInvalidSchema is returned by schema loaders when a schema is structurally inconsistent.
	ErrInvalidSchema = errors.New("validator: invalid schema")

	// ErrInvalidPayload is returned when a payload cannot be decoded into a value tree.
	ErrInvalidPayload = errors.New("validator: invalid payload")

	// ErrRuleFault wraps an error or panic raised by an async rule implementation.
	ErrRuleFault = errors.New("validator: rule execution fault")
)
