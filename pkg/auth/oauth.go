package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStorage is the user persistence every auth flow needs.
type UserStorage interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	// GetUserByEmail returns ErrUserNotFound when no user has the address.
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// OAuthStorage adds provider links to UserStorage.
type OAuthStorage interface {
	UserStorage
	StoreOAuthLink(ctx context.Context, userID uuid.UUID, provider, providerUserID string) error
	// GetUserByOAuth returns ErrUserNotFound when the provider account is not linked.
	GetUserByOAuth(ctx context.Context, provider, providerUserID string) (*User, error)
}

// StateStore keeps OAuth CSRF state tokens between redirect and callback.
type StateStore interface {
	StoreState(ctx context.Context, state string, ttl time.Duration) error
	// ConsumeState atomically checks and removes the state. It returns
	// ErrStateNotFound if the state is unknown, expired or already used.
	ConsumeState(ctx context.Context, state string) error
}

// ProviderProfile is the provider-neutral view of an OAuth identity.
type ProviderProfile struct {
	ProviderUserID string
	Email          string
	EmailVerified  bool
	Name           string
	AvatarURL      string
}

// ProviderAdapter hides provider specifics from OAuthService.
type ProviderAdapter interface {
	ProviderID() string
	AuthURL(state string) (string, error)
	// ResolveProfile exchanges the code and fetches the user's profile.
	// It returns ErrInvalidCode when the exchange is rejected.
	ResolveProfile(ctx context.Context, code string) (ProviderProfile, error)
}
