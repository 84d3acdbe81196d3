// Package redis connects to the Redis server that backs shared
// verification-attempt throttling.
//
// Redis is optional: Config.Enabled reports whether REDIS_URL was set, and
// callers fall back to in-process limits when it was not.
//
//	cfg := redis.Config{ConnectionURL: "redis://localhost:6379/0", RetryAttempts: 3}
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	if err := redis.Healthcheck(client)(ctx); err != nil {
//		// not ready
//	}
//
// Sentinel errors are joined with the go-redis cause, so errors.Is works for both.
package redis
