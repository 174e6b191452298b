package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/zen-rs/skyzen/core/handler"
	"github.com/zen-rs/skyzen/core/logger"
)

// LoggingConfig configures the request/response logging middleware.
type LoggingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool

	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger

	// LogLevel for request logging (default: slog.LevelInfo)
	LogLevel slog.Level

	// SlowRequestThreshold logs slow requests at warning level (default: 5s)
	SlowRequestThreshold time.Duration

	// Component name for structured logging (default: "http")
	Component string
}

// Logging creates a request logging middleware with default configuration.
// One line is emitted per request after the response has been written,
// carrying method, path, status, size, and duration.
func Logging[C handler.Context]() handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{})
}

// LoggingWithLogger creates a logging middleware with a custom logger.
func LoggingWithLogger[C handler.Context](log *slog.Logger) handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{Logger: log})
}

// LoggingWithConfig creates a request logging middleware with custom
// configuration. The log line is emitted from inside the response phase, so
// the status and byte count reflect what actually went on the wire.
func LoggingWithConfig[C handler.Context](cfg LoggingConfig) handler.Middleware[C] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.LogLevel == 0 {
		cfg.LogLevel = slog.LevelInfo
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}
	if cfg.Component == "" {
		cfg.Component = "http"
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			start := time.Now()
			req := ctx.Request()
			requestID, _ := GetRequestID(ctx)

			resp := next(ctx)
			if resp == nil {
				return nil
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				wrapped := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
				err := resp(wrapped, r)

				duration := time.Since(start)

				attrs := []slog.Attr{
					logger.Component(cfg.Component),
					logger.Method(req.Method),
					logger.Path(req.URL.Path),
					logger.RemoteAddr(req.RemoteAddr),
					logger.StatusCode(wrapped.statusCode),
					logger.BytesOut(wrapped.size),
					logger.Duration(duration),
				}
				if requestID != "" {
					attrs = append(attrs, logger.RequestID(requestID))
				}
				if req.URL.RawQuery != "" {
					attrs = append(attrs, logger.Query(req.URL.RawQuery))
				}
				if err != nil {
					attrs = append(attrs, logger.Error(err))
				}

				level := cfg.LogLevel
				if duration >= cfg.SlowRequestThreshold {
					level = slog.LevelWarn
					attrs = append(attrs, slog.Bool("slow_request", true))
				}

				cfg.Logger.LogAttrs(req.Context(), level, "request complete", attrs...)
				return err
			}
		}
	}
}

// statusWriter captures the status code and body size for logging.
type statusWriter struct {
	http.ResponseWriter
	statusCode int
	size       int64
	wrote      bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.wrote {
		w.wrote = true
		w.statusCode = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if !w.wrote {
		w.wrote = true
	}
	n, err := w.ResponseWriter.Write(p)
	w.size += int64(n)
	return n, err
}
