package ratelimiter

import (
	"context"
	"fmt"
	"time"
)

// Limit describes a token bucket: Capacity tokens, refilled by
// RefillRate tokens every RefillInterval.
type Limit struct {
	Capacity       int
	RefillRate     int
	RefillInterval time.Duration
}

// PerMinute returns a limit of n requests per minute with a matching
// burst capacity.
func PerMinute(n int) Limit {
	return Limit{Capacity: n, RefillRate: n, RefillInterval: time.Minute}
}

// PerSecond returns a limit of n requests per second with a matching
// burst capacity.
func PerSecond(n int) Limit {
	return Limit{Capacity: n, RefillRate: n, RefillInterval: time.Second}
}

// Validate reports whether the limit is usable.
func (l Limit) Validate() error {
	if l.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, l.Capacity)
	}
	if l.RefillRate <= 0 {
		return fmt.Errorf("%w: refill rate must be positive, got %d", ErrInvalidConfig, l.RefillRate)
	}
	if l.RefillInterval <= 0 {
		return fmt.Errorf("%w: refill interval must be positive, got %s", ErrInvalidConfig, l.RefillInterval)
	}
	return nil
}

// Result reports the outcome of a single token request.
type Result struct {
	// Allowed is false when the bucket had no token left.
	Allowed bool

	// Remaining is the number of tokens left after this request.
	Remaining int

	// ResetAt is when the next refill adds tokens to the bucket.
	ResetAt time.Time
}

// Store tracks token buckets by key. Implementations must be safe for
// concurrent use.
type Store interface {
	// Take consumes one token from the bucket for key, creating the
	// bucket at full capacity on first use.
	Take(ctx context.Context, key string, limit Limit) (Result, error)

	// Reset discards the bucket for key.
	Reset(ctx context.Context, key string) error
}
