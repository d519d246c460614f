package store

import (
	"context"
	"time"

	"github.com/dmitrymomot/apigate/pkg/auth"
	"github.com/dmitrymomot/apigate/pkg/redis"
)

const statePrefix = "oauth_state:"

// OAuthStates keeps OAuth state tokens in Redis. It implements auth.StateStore.
type OAuthStates struct {
	kv *redis.Storage
}

var _ auth.StateStore = (*OAuthStates)(nil)

func NewOAuthStates(kv *redis.Storage) *OAuthStates {
	return &OAuthStates{kv: kv}
}

func (s *OAuthStates) StoreState(ctx context.Context, state string, ttl time.Duration) error {
	return s.kv.Put(ctx, statePrefix+state, []byte{1}, ttl)
}

func (s *OAuthStates) ConsumeState(ctx context.Context, state string) error {
	ok, err := s.kv.Take(ctx, statePrefix+state)
	if err != nil {
		return err
	}
	if !ok {
		return auth.ErrStateNotFound
	}
	return nil
}
