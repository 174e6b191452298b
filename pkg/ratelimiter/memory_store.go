package ratelimiter

import (
	"context"
	"sync"
	"time"
)

// bucket holds the token state for a single key.
type bucket struct {
	tokens     int
	lastRefill time.Time
	lastAccess time.Time
}

// MemoryStore is an in-process Store. Stale buckets are swept
// opportunistically during Take, so the store needs no background
// goroutine or lifecycle management.
type MemoryStore struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	lastSweep  time.Time
	sweepEvery time.Duration
	staleAfter time.Duration
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithSweepInterval sets how often stale buckets are swept. Set to 0
// to disable sweeping.
func WithSweepInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.sweepEvery = interval
	}
}

// WithStaleAfter sets how long an untouched bucket survives before a
// sweep removes it.
func WithStaleAfter(d time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if d > 0 {
			ms.staleAfter = d
		}
	}
}

// NewMemoryStore creates an in-memory token bucket store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		buckets:    make(map[string]*bucket),
		lastSweep:  time.Now(),
		sweepEvery: 5 * time.Minute,
		staleAfter: time.Hour,
	}
	for _, opt := range opts {
		opt(ms)
	}
	return ms
}

// Take consumes one token from the bucket for key.
func (ms *MemoryStore) Take(ctx context.Context, key string, limit Limit) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	ms.maybeSweep(now)

	b, ok := ms.buckets[key]
	if !ok {
		b = &bucket{tokens: limit.Capacity, lastRefill: now}
		ms.buckets[key] = b
	}

	// Refill whole elapsed intervals. Intervals are capped so a bucket
	// idle for a long time cannot overflow the token math.
	elapsed := now.Sub(b.lastRefill)
	maxIntervals := int64(limit.Capacity/limit.RefillRate) + 1
	intervals := min(int64(elapsed/limit.RefillInterval), maxIntervals)
	if intervals > 0 {
		b.tokens = min(b.tokens+int(intervals)*limit.RefillRate, limit.Capacity)
		b.lastRefill = now
	}

	b.lastAccess = now
	res := Result{ResetAt: b.lastRefill.Add(limit.RefillInterval)}

	if b.tokens <= 0 {
		return res, nil
	}
	b.tokens--
	res.Allowed = true
	res.Remaining = b.tokens
	return res, nil
}

// Reset discards the bucket for key.
func (ms *MemoryStore) Reset(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.buckets, key)
	return nil
}

// Len returns the number of live buckets.
func (ms *MemoryStore) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	return len(ms.buckets)
}

// maybeSweep drops buckets untouched for longer than staleAfter.
// Called with ms.mu held.
func (ms *MemoryStore) maybeSweep(now time.Time) {
	if ms.sweepEvery <= 0 || now.Sub(ms.lastSweep) < ms.sweepEvery {
		return
	}
	ms.lastSweep = now

	for key, b := range ms.buckets {
		if now.Sub(b.lastAccess) > ms.staleAfter {
			delete(ms.buckets, key)
		}
	}
}
