package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/apigate/pkg/logger"
)

// OAuthService runs the authorization code flow for one provider.
type OAuthService struct {
	storage      OAuthStorage
	states       StateStore
	adapter      ProviderAdapter
	logger       *slog.Logger
	stateTTL     time.Duration
	verifiedOnly bool
	afterSignup  Hook
}

// OAuthOption configures an OAuthService.
type OAuthOption func(*OAuthService)

// WithOAuthLogger sets the service logger.
func WithOAuthLogger(l *slog.Logger) OAuthOption {
	return func(s *OAuthService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStateTTL sets how long a state token stays valid.
func WithStateTTL(ttl time.Duration) OAuthOption {
	return func(s *OAuthService) {
		if ttl > 0 {
			s.stateTTL = ttl
		}
	}
}

// WithVerifiedOnly rejects profiles whose email the provider has not verified.
func WithVerifiedOnly(verifiedOnly bool) OAuthOption {
	return func(s *OAuthService) { s.verifiedOnly = verifiedOnly }
}

// WithAfterOAuthSignup runs hook when the callback creates a new user.
func WithAfterOAuthSignup(hook Hook) OAuthOption {
	return func(s *OAuthService) { s.afterSignup = hook }
}

// NewOAuthService constructs an OAuth service.
// Defaults: verified emails only, 10 minute state TTL, discarding logger.
func NewOAuthService(storage OAuthStorage, states StateStore, adapter ProviderAdapter, opts ...OAuthOption) *OAuthService {
	s := &OAuthService{
		storage:      storage,
		states:       states,
		adapter:      adapter,
		logger:       logger.Discard(),
		stateTTL:     10 * time.Minute,
		verifiedOnly: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Provider returns the adapter's provider id.
func (s *OAuthService) Provider() string { return s.adapter.ProviderID() }

// GetAuthURL stores a fresh state token and returns the provider's consent URL.
func (s *OAuthService) GetAuthURL(ctx context.Context) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}

	if err := s.states.StoreState(ctx, state, s.stateTTL); err != nil {
		return "", fmt.Errorf("failed to store state: %w", err)
	}

	url, err := s.adapter.AuthURL(state)
	if err != nil {
		return "", fmt.Errorf("failed to build auth url: %w", err)
	}
	return url, nil
}

// Auth handles the provider callback. It returns the signed-in user and
// whether the user was created by this call.
func (s *OAuthService) Auth(ctx context.Context, code, state string) (*User, bool, error) {
	if state == "" {
		return nil, false, ErrInvalidState
	}
	if err := s.states.ConsumeState(ctx, state); err != nil {
		if errors.Is(err, ErrStateNotFound) {
			return nil, false, ErrInvalidState
		}
		return nil, false, fmt.Errorf("failed to validate state: %w", err)
	}

	profile, err := s.adapter.ResolveProfile(ctx, code)
	if err != nil {
		if errors.Is(err, ErrInvalidCode) {
			return nil, false, ErrInvalidCode
		}
		return nil, false, fmt.Errorf("failed to resolve provider profile: %w", err)
	}
	if profile.ProviderUserID == "" || profile.Email == "" {
		return nil, false, ErrInvalidProfile
	}
	profile.Email = NormalizeEmail(profile.Email)

	if s.verifiedOnly && !profile.EmailVerified {
		return nil, false, ErrUnverifiedEmail
	}

	user, err := s.storage.GetUserByOAuth(ctx, s.adapter.ProviderID(), profile.ProviderUserID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, fmt.Errorf("failed to check oauth link: %w", err)
	}

	user, err = s.signup(ctx, profile)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *OAuthService) signup(ctx context.Context, profile ProviderProfile) (*User, error) {
	_, err := s.storage.GetUserByEmail(ctx, profile.Email)
	if err == nil {
		// An existing password account must not be taken over through OAuth.
		return nil, ErrProviderEmailInUse
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	user := &User{
		ID:         uuid.New(),
		Email:      profile.Email,
		Name:       profile.Name,
		Avatar:     profile.AvatarURL,
		AuthMethod: "oauth_" + s.adapter.ProviderID(),
		IsVerified: profile.EmailVerified,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.storage.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.storage.StoreOAuthLink(ctx, user.ID, s.adapter.ProviderID(), profile.ProviderUserID); err != nil {
		if deleteErr := s.storage.DeleteUser(ctx, user.ID); deleteErr != nil {
			s.logger.ErrorContext(ctx, "failed to cleanup user after oauth link save failure",
				logger.UserID(user.ID.String()),
				logger.Provider(s.adapter.ProviderID()),
				logger.Error(deleteErr),
				logger.Component("oauth"),
			)
		}
		return nil, fmt.Errorf("failed to store oauth link: %w", err)
	}

	runHook(s.logger, "oauth", "afterSignup", s.afterSignup, user)
	return user, nil
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
