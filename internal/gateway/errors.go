package gateway

import "errors"

var (
	ErrUnknownSchema  = errors.New("unknown schema")
	ErrMissingSchema  = errors.New("required schema is not loaded")
	ErrMalformedBody  = errors.New("malformed request body")
	ErrBodyTooLarge   = errors.New("request body too large")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrOAuthCancelled = errors.New("oauth flow cancelled by user")
)
