// Package auth implements the gateway's user authentication flows.
//
// PasswordService registers users with bcrypt password hashes and verifies
// credentials. OAuthService runs the OAuth 2.0 authorization code flow
// through a ProviderAdapter; NewGoogleAdapter provides Google sign-in on top
// of golang.org/x/oauth2. State tokens guarding the redirect are kept in a
// StateStore so any gateway instance can complete a callback.
//
// Persistence is abstracted behind UserStorage, PasswordStorage and
// OAuthStorage; the Mongo-backed implementation lives in internal/store.
//
// # Usage
//
//	passwords := auth.NewPasswordService(users,
//	    auth.WithAfterRegister(sendWelcome),
//	    auth.WithPasswordLogger(log),
//	)
//	user, err := passwords.Register(ctx, email, password, name)
//
//	google := auth.NewOAuthService(users, states, auth.NewGoogleAdapter(cfg),
//	    auth.WithStateTTL(cfg.StateTTL),
//	    auth.WithVerifiedOnly(cfg.VerifiedOnly),
//	)
//	url, err := google.GetAuthURL(ctx)
//	user, created, err := google.Auth(ctx, code, state)
//
// # Error Handling
//
// Sentinel errors in errors.go are returned unwrapped for expected outcomes
// (ErrInvalidCredentials, ErrEmailAlreadyExists, ErrInvalidState, ...) and
// wrapped with %w for storage and provider failures.
package auth
