package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Authentication methods recorded on a user.
const (
	MethodPassword    = "password"
	MethodOAuthGoogle = "oauth_google"
)

// OAuthProviderGoogle identifies the Google provider in OAuth links.
const OAuthProviderGoogle = "google"

// User is an account known to the gateway.
type User struct {
	ID         uuid.UUID
	Email      string
	Name       string
	Avatar     string
	AuthMethod string
	IsVerified bool
	CreatedAt  time.Time
}

// NormalizeEmail lowercases and trims an address so lookups are stable.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
