// Package ratelimiter implements token bucket rate limiting behind a
// pluggable Store interface.
//
// A Limit describes a bucket (capacity plus refill schedule) and a
// Store tracks buckets by key. MemoryStore is the in-process
// implementation; distributed deployments can provide a Store backed
// by shared storage.
//
//	store := ratelimiter.NewMemoryStore()
//	res, err := store.Take(ctx, clientIP, ratelimiter.PerMinute(60))
//	if err != nil {
//		return err
//	}
//	if !res.Allowed {
//		// reject, retry after res.ResetAt
//	}
package ratelimiter
