package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/zen-rs/skyzen/core/handler"
	"github.com/zen-rs/skyzen/core/response"
)

// BodyLimitConfig configures the request body limit middleware.
type BodyLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool

	// MaxSize is the maximum allowed size in bytes (default: 4MB)
	MaxSize int64

	// ErrorHandler handles requests that exceed the size limit
	ErrorHandler func(ctx handler.Context, contentLength int64, maxSize int64) handler.Response
}

// BodyLimit creates a body limit middleware with a 4MB default.
func BodyLimit[C handler.Context]() handler.Middleware[C] {
	return BodyLimitWithConfig[C](BodyLimitConfig{})
}

// BodyLimitWithSize creates a body limit middleware with a specific limit.
func BodyLimitWithSize[C handler.Context](maxSize int64) handler.Middleware[C] {
	return BodyLimitWithConfig[C](BodyLimitConfig{MaxSize: maxSize})
}

// BodyLimitWithConfig creates a body limit middleware with custom
// configuration. A declared Content-Length above the limit is rejected
// before the handler runs; bodies without a declared length are capped
// with http.MaxBytesReader so oversized streams fail during reading.
func BodyLimitWithConfig[C handler.Context](cfg BodyLimitConfig) handler.Middleware[C] {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 4 * 1024 * 1024
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(ctx handler.Context, contentLength int64, maxSize int64) handler.Response {
			details := map[string]any{"limit": maxSize}
			if contentLength > 0 {
				details["size"] = contentLength
			}
			return response.Error(response.ErrRequestEntityTooLarge.
				WithMessage(fmt.Sprintf("request body exceeds %d bytes", maxSize)).
				WithDetails(details))
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()

			if clStr := req.Header.Get("Content-Length"); clStr != "" {
				if cl, err := strconv.ParseInt(clStr, 10, 64); err == nil && cl > cfg.MaxSize {
					return cfg.ErrorHandler(ctx, cl, cfg.MaxSize)
				}
			}

			if req.Body != nil {
				req.Body = http.MaxBytesReader(ctx.ResponseWriter(), req.Body, cfg.MaxSize)
			}

			return next(ctx)
		}
	}
}
