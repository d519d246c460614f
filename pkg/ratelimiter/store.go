package ratelimiter

import (
	"context"
	"time"
)

// Store keeps bucket state. Implementations refill the bucket for the time
// elapsed, then take tokens only if enough are available. The returned
// remaining count is negative when the request is denied.
type Store interface {
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}
