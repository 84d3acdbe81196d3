// Package ratelimiter throttles two-factor verification attempts with a
// token bucket per key (usually the administrator account ID).
//
// A Bucket holds Capacity tokens and regains RefillRate tokens every
// RefillInterval. Each attempt consumes one token; when none are left the
// attempt is refused until the next refill. Refused attempts do not consume
// tokens, so a locked out account recovers at the configured pace.
//
// Two Store implementations are provided:
//
//   • MemoryStore – process local, with a background sweep of idle buckets.
//   • RedisStore  – shared between instances; the refill and consume step runs
//     atomically inside a Lua script.
//
// # Usage
//
//	bucket, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
//	    Capacity:       5,
//	    RefillRate:     1,
//	    RefillInterval: time.Minute,
//	})
//
//	res, err := bucket.Allow(ctx, accountID)
//	if err == nil && !res.Allowed() {
//	    // refuse without revealing remaining attempts to the user
//	}
package ratelimiter
