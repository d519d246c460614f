package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/apigate/pkg/auth"
)

const strongPassword = "C0rrect-Horse!"

func TestPasswordService_Register(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates user and stores hash", func(t *testing.T) {
		t.Parallel()
		storage := &mockStorage{}
		storage.On("GetUserByEmail", ctx, "new@example.com").Return(nil, auth.ErrUserNotFound)
		storage.On("CreateUser", ctx, mock.AnythingOfType("*auth.User")).Return(nil)
		storage.On("StorePasswordHash", ctx, mock.Anything, mock.MatchedBy(func(hash []byte) bool {
			return bcrypt.CompareHashAndPassword(hash, []byte(strongPassword)) == nil
		})).Return(nil)

		hooked := make(chan *auth.User, 1)
		svc := auth.NewPasswordService(storage,
			auth.WithBcryptCost(bcrypt.MinCost),
			auth.WithAfterRegister(func(_ context.Context, u *auth.User) error {
				hooked <- u
				return nil
			}),
		)

		user, err := svc.Register(ctx, "  New@Example.com ", strongPassword, " Ada ")
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", user.Email)
		assert.Equal(t, "Ada", user.Name)
		assert.Equal(t, auth.MethodPassword, user.AuthMethod)
		assert.False(t, user.IsVerified)

		select {
		case got := <-hooked:
			assert.Equal(t, user.ID, got.ID)
		case <-time.After(time.Second):
			t.Fatal("afterRegister hook was not called")
		}
		storage.AssertExpectations(t)
	})

	t.Run("rejects weak password", func(t *testing.T) {
		t.Parallel()
		svc := auth.NewPasswordService(&mockStorage{})

		_, err := svc.Register(ctx, "a@example.com", "password", "")
		assert.ErrorIs(t, err, auth.ErrWeakPassword)

		_, err = svc.Register(ctx, "a@example.com", "", "")
		assert.ErrorIs(t, err, auth.ErrPasswordRequired)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		t.Parallel()
		storage := &mockStorage{}
		storage.On("GetUserByEmail", ctx, "taken@example.com").Return(&auth.User{Email: "taken@example.com"}, nil)

		_, err := auth.NewPasswordService(storage).Register(ctx, "taken@example.com", strongPassword, "")
		assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
	})

	t.Run("cleans up user when hash cannot be stored", func(t *testing.T) {
		t.Parallel()
		storage := &mockStorage{}
		storage.On("GetUserByEmail", ctx, "x@example.com").Return(nil, auth.ErrUserNotFound)
		storage.On("CreateUser", ctx, mock.Anything).Return(nil)
		storage.On("StorePasswordHash", ctx, mock.Anything, mock.Anything).Return(errors.New("disk full"))
		storage.On("DeleteUser", ctx, mock.Anything).Return(nil)

		_, err := auth.NewPasswordService(storage, auth.WithBcryptCost(bcrypt.MinCost)).
			Register(ctx, "x@example.com", strongPassword, "")
		require.Error(t, err)
		storage.AssertCalled(t, "DeleteUser", ctx, mock.Anything)
	})
}

func TestPasswordService_Authenticate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte(strongPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user := &auth.User{Email: "user@example.com"}

	storage := &mockStorage{}
	storage.On("GetUserByEmail", ctx, "user@example.com").Return(user, nil)
	storage.On("GetUserByEmail", ctx, "ghost@example.com").Return(nil, auth.ErrUserNotFound)
	storage.On("GetPasswordHash", ctx, user.ID).Return(hash, nil)
	svc := auth.NewPasswordService(storage)

	got, err := svc.Authenticate(ctx, "USER@example.com", strongPassword)
	require.NoError(t, err)
	assert.Same(t, user, got)

	_, err = svc.Authenticate(ctx, "user@example.com", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "ghost@example.com", strongPassword)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}
