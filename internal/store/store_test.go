package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apigate/internal/store"
	"github.com/dmitrymomot/apigate/pkg/auth"
	"github.com/dmitrymomot/apigate/pkg/mongo"
	"github.com/dmitrymomot/apigate/pkg/redis"
)

func testUsers(t *testing.T) *store.Users {
	t.Helper()
	url := os.Getenv("MONGODB_TEST_URL")
	if url == "" {
		t.Skip("MONGODB_TEST_URL is not set")
	}

	ctx := context.Background()
	db, err := mongo.NewWithDatabase(ctx, mongo.Config{
		ConnectionURL:  url,
		Database:       "apigate_test_" + uuid.NewString()[:8],
		ConnectTimeout: 2 * time.Second,
		RetryAttempts:  1,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = db.Client().Disconnect(context.Background())
	})

	users := store.NewUsers(db)
	require.NoError(t, users.EnsureIndexes(ctx))
	return users
}

func testKV(t *testing.T) *redis.Storage {
	t.Helper()
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL is not set")
	}
	client, err := redis.Connect(context.Background(), redis.Config{ConnectionURL: url, RetryAttempts: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewStorage(client, "apigate-test:"+uuid.NewString()+":")
}

func TestRulesIgnoreNonEmailValues(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ok, err := (&store.Users{}).EmailAvailable(ctx, 42, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	domains := store.NewDisposableDomains(nil)
	for _, v := range []any{nil, 42, "no-at-sign", "trailing@"} {
		ok, err := domains.NotDisposable(ctx, v, nil)
		require.NoError(t, err)
		assert.True(t, ok, "%v", v)
	}
}

func TestUsers(t *testing.T) {
	users := testUsers(t)
	ctx := context.Background()

	user := &auth.User{
		ID:         uuid.New(),
		Email:      "Ada@Example.com",
		Name:       "Ada",
		AuthMethod: auth.MethodPassword,
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, users.CreateUser(ctx, user))

	t.Run("duplicate email", func(t *testing.T) {
		dup := *user
		dup.ID = uuid.New()
		assert.ErrorIs(t, users.CreateUser(ctx, &dup), auth.ErrEmailAlreadyExists)
	})

	t.Run("lookup", func(t *testing.T) {
		got, err := users.GetUserByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "ada@example.com", got.Email)

		got, err = users.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ada", got.Name)

		_, err = users.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})

	t.Run("password hash", func(t *testing.T) {
		_, err := users.GetPasswordHash(ctx, user.ID)
		assert.ErrorIs(t, err, store.ErrNoPassword)

		require.NoError(t, users.StorePasswordHash(ctx, user.ID, []byte("hash")))
		hash, err := users.GetPasswordHash(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, []byte("hash"), hash)

		assert.ErrorIs(t, users.StorePasswordHash(ctx, uuid.New(), []byte("x")), auth.ErrUserNotFound)
	})

	t.Run("oauth link", func(t *testing.T) {
		require.NoError(t, users.StoreOAuthLink(ctx, user.ID, "google", "g-1"))
		got, err := users.GetUserByOAuth(ctx, "google", "g-1")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		_, err = users.GetUserByOAuth(ctx, "google", "g-2")
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})

	t.Run("email available", func(t *testing.T) {
		ok, err := users.EmailAvailable(ctx, "ADA@example.com", nil)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = users.EmailAvailable(ctx, "grace@example.com", nil)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, users.DeleteUser(ctx, user.ID))
		assert.ErrorIs(t, users.DeleteUser(ctx, user.ID), auth.ErrUserNotFound)
	})
}

func TestOAuthStates(t *testing.T) {
	states := store.NewOAuthStates(testKV(t))
	ctx := context.Background()

	require.NoError(t, states.StoreState(ctx, "abc", time.Minute))
	require.NoError(t, states.ConsumeState(ctx, "abc"))
	assert.ErrorIs(t, states.ConsumeState(ctx, "abc"), auth.ErrStateNotFound)
	assert.ErrorIs(t, states.ConsumeState(ctx, "never-stored"), auth.ErrStateNotFound)
}

func TestDisposableDomains(t *testing.T) {
	domains := store.NewDisposableDomains(testKV(t))
	ctx := context.Background()

	require.NoError(t, domains.SeedDefaults(ctx))
	require.NoError(t, domains.Seed(ctx, " Example-Temp.IO "))

	for email, want := range map[string]bool{
		"someone@mailinator.com":  false,
		"someone@YOPMAIL.com":     false,
		"someone@example-temp.io": false,
		"someone@example.com":     true,
	} {
		ok, err := domains.NotDisposable(ctx, email, nil)
		require.NoError(t, err)
		assert.Equal(t, want, ok, email)
	}
}
