// Package redis connects to Redis and exposes the small storage surface the
// gateway needs: expiring keys that can be taken exactly once (OAuth state)
// and string sets (the disposable email domain list).
//
// # Usage
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	store := redis.NewStorage(client, cfg.KeyPrefix)
//	_ = store.Put(ctx, "oauth_state:abc", []byte("1"), 10*time.Minute)
//	ok, err := store.Take(ctx, "oauth_state:abc")
//
// Healthcheck adapts a client to the readiness probe signature used by
// httpserver.HealthCheckHandler.
package redis
