package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage is a small key-value and set facade over a Redis client. All keys
// are namespaced with a fixed prefix.
type Storage struct {
	db     redis.UniversalClient
	prefix string
}

// NewStorage wraps client. Keys are prefixed with prefix.
func NewStorage(client redis.UniversalClient, prefix string) *Storage {
	return &Storage{db: client, prefix: prefix}
}

func (s *Storage) key(k string) string { return s.prefix + k }

// Put stores val under key for ttl. A zero ttl means no expiration.
func (s *Storage) Put(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	return s.db.Set(ctx, s.key(key), val, ttl).Err()
}

// Get returns the value under key; found is false for missing keys.
func (s *Storage) Get(ctx context.Context, key string) (val []byte, found bool, err error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}
	val, err = s.db.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Take atomically reads and deletes key. It reports whether the key existed,
// so two concurrent callers can never both take the same key.
func (s *Storage) Take(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	err := s.db.GetDel(ctx, s.key(key)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	return err == nil, err
}

// Delete removes keys. Missing keys are ignored.
func (s *Storage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	return s.db.Del(ctx, full...).Err()
}

// SetAdd adds members to the set under key.
func (s *Storage) SetAdd(ctx context.Context, key string, members ...string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if len(members) == 0 {
		return nil
	}
	args := make([]any, len(members))
	for i, m := range members {
		args[i] = m
	}
	return s.db.SAdd(ctx, s.key(key), args...).Err()
}

// SetHas reports whether member belongs to the set under key.
func (s *Storage) SetHas(ctx context.Context, key, member string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	return s.db.SIsMember(ctx, s.key(key), member).Result()
}

// SetSize returns the number of members in the set under key.
func (s *Storage) SetSize(ctx context.Context, key string) (int64, error) {
	if key == "" {
		return 0, ErrEmptyKey
	}
	return s.db.SCard(ctx, s.key(key)).Result()
}
