package auth

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var (
	ErrWeakPassword     = errors.New("password does not meet security requirements")
	ErrPasswordRequired = errors.New("password is required")
)

var (
	ErrInvalidState       = errors.New("invalid OAuth state")
	ErrStateNotFound      = errors.New("OAuth state not found or expired")
	ErrInvalidCode        = errors.New("invalid OAuth code")
	ErrUnverifiedEmail    = errors.New("email not verified by provider")
	ErrNoPrimaryEmail     = errors.New("no primary email from provider")
	ErrProviderEmailInUse = errors.New("email from provider already registered")
	ErrInvalidProfile     = errors.New("invalid provider profile")
)
