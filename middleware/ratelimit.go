package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/zen-rs/skyzen/core/handler"
	"github.com/zen-rs/skyzen/core/response"
	"github.com/zen-rs/skyzen/pkg/clientip"
	"github.com/zen-rs/skyzen/pkg/ratelimiter"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool

	// Limit is the token bucket applied per key. Required.
	Limit ratelimiter.Limit

	// KeyFunc derives the bucket key from the request.
	// Default: client IP via clientip.GetIP.
	KeyFunc func(ctx handler.Context) string

	// Store tracks buckets. Default: a MemoryStore private to this
	// middleware instance.
	Store ratelimiter.Store

	// ErrorHandler handles rejected requests.
	ErrorHandler func(ctx handler.Context, res ratelimiter.Result) handler.Response
}

// RateLimit creates a rate limiting middleware keyed by client IP.
// It panics on an invalid limit, since that is a programmer error at
// registration time.
func RateLimit[C handler.Context](limit ratelimiter.Limit) handler.Middleware[C] {
	return RateLimitWithConfig[C](RateLimitConfig{Limit: limit})
}

// RateLimitWithConfig creates a rate limiting middleware with custom
// configuration. Every response carries X-RateLimit-Limit,
// X-RateLimit-Remaining, and X-RateLimit-Reset headers; rejected
// requests additionally get Retry-After.
func RateLimitWithConfig[C handler.Context](cfg RateLimitConfig) handler.Middleware[C] {
	if err := cfg.Limit.Validate(); err != nil {
		panic(fmt.Sprintf("middleware: %v", err))
	}

	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(ctx handler.Context) string {
			return clientip.GetIP(ctx.Request())
		}
	}
	if cfg.Store == nil {
		cfg.Store = ratelimiter.NewMemoryStore()
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(ctx handler.Context, res ratelimiter.Result) handler.Response {
			return response.Error(response.ErrTooManyRequests.WithDetails(map[string]any{
				"retry_after": res.ResetAt.UTC().Format(time.RFC3339),
			}))
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			res, err := cfg.Store.Take(ctx, cfg.KeyFunc(ctx), cfg.Limit)
			if err != nil {
				return response.Error(fmt.Errorf("%w: %w", ratelimiter.ErrStoreUnavailable, err))
			}

			h := ctx.ResponseWriter().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed {
				retryAfter := max(int64(time.Until(res.ResetAt).Seconds()), 1)
				h.Set("Retry-After", strconv.FormatInt(retryAfter, 10))
				return cfg.ErrorHandler(ctx, res)
			}

			return next(ctx)
		}
	}
}
