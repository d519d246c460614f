package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/apigate/pkg/logger"
	"github.com/dmitrymomot/apigate/pkg/validator"
)

// PasswordStorage adds password hashes to UserStorage.
type PasswordStorage interface {
	UserStorage
	StorePasswordHash(ctx context.Context, userID uuid.UUID, hash []byte) error
	GetPasswordHash(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

// PasswordService registers and authenticates email/password users.
type PasswordService struct {
	storage       PasswordStorage
	bcryptCost    int
	logger        *slog.Logger
	strength      validator.PasswordStrengthConfig
	afterRegister Hook
}

// PasswordOption configures a PasswordService.
type PasswordOption func(*PasswordService)

// WithPasswordLogger sets the service logger.
func WithPasswordLogger(l *slog.Logger) PasswordOption {
	return func(s *PasswordService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBcryptCost sets the bcrypt cost for password hashing.
func WithBcryptCost(cost int) PasswordOption {
	return func(s *PasswordService) { s.bcryptCost = cost }
}

// WithPasswordStrength replaces the password policy.
func WithPasswordStrength(cfg validator.PasswordStrengthConfig) PasswordOption {
	return func(s *PasswordService) { s.strength = cfg }
}

// WithAfterRegister runs hook in the background after a successful registration.
func WithAfterRegister(hook Hook) PasswordOption {
	return func(s *PasswordService) { s.afterRegister = hook }
}

// NewPasswordService creates a password authentication service.
func NewPasswordService(storage PasswordStorage, opts ...PasswordOption) *PasswordService {
	s := &PasswordService{
		storage:    storage,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger.Discard(),
		strength:   validator.DefaultPasswordStrength(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a user. The password must satisfy the configured policy;
// a violation is reported as ErrWeakPassword joined with the reasons.
func (s *PasswordService) Register(ctx context.Context, email, password, name string) (*User, error) {
	email = NormalizeEmail(email)
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if problems := validator.PasswordProblems(password, s.strength); len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrWeakPassword, strings.Join(problems, "; "))
	}

	_, err := s.storage.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailAlreadyExists
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		ID:         uuid.New(),
		Email:      email,
		Name:       strings.TrimSpace(name),
		AuthMethod: MethodPassword,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.storage.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.storage.StorePasswordHash(ctx, user.ID, hash); err != nil {
		if deleteErr := s.storage.DeleteUser(ctx, user.ID); deleteErr != nil {
			s.logger.ErrorContext(ctx, "failed to cleanup user after password save failure",
				logger.UserID(user.ID.String()),
				logger.Error(deleteErr),
				logger.Component("password"),
			)
		}
		return nil, fmt.Errorf("failed to save password: %w", err)
	}

	runHook(s.logger, "password", "afterRegister", s.afterRegister, user)
	return user, nil
}

// Authenticate verifies email and password. Every failure is reported as
// ErrInvalidCredentials so callers cannot probe for registered emails.
func (s *PasswordService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.storage.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	hash, err := s.storage.GetPasswordHash(ctx, user.ID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
