// Package ratelimiter implements token bucket rate limiting with in-memory
// and Redis stores plus HTTP middleware.
//
// A bucket holds at most Capacity tokens and gains RefillRate tokens every
// RefillInterval. A request that needs more tokens than available is denied
// and takes nothing from the bucket.
//
//	limiter, err := ratelimiter.NewBucket(
//		ratelimiter.NewRedisStore(rdb, "apigate:ratelimit:"),
//		ratelimiter.Config{Capacity: 10, RefillRate: 1, RefillInterval: 6 * time.Second},
//	)
//	r.Use(ratelimiter.Middleware(limiter, ratelimiter.ByIP))
//
// The middleware sets X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset on every limited response and Retry-After on 429.
package ratelimiter
