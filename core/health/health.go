package health

import (
	"context"
	"log/slog"

	"github.com/zen-rs/skyzen/core/handler"
	"github.com/zen-rs/skyzen/core/logger"
	"github.com/zen-rs/skyzen/core/response"
)

// Check probes a single dependency. A nil error means the dependency
// is usable.
type Check func(context.Context) error

// Liveness reports that the process is up. It never consults
// dependencies, so it stays green while the scheduler should keep the
// process alive.
func Liveness[C handler.Context](C) handler.Response {
	return response.String("ALIVE")
}

// NoContent answers with 204 and no body, for probes that run at high
// frequency.
func NoContent[C handler.Context](C) handler.Response {
	return response.NoContent()
}

// Readiness builds a handler that runs every check in order and
// reports 503 on the first failure. Failed checks are logged with the
// given logger.
func Readiness[C handler.Context](log *slog.Logger, checks ...Check) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		for _, check := range checks {
			if err := check(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed", logger.Error(err))
				return response.Error(response.ErrServiceUnavailable)
			}
		}
		return response.String("READY")
	}
}
