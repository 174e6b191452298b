package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-rs/skyzen/core/handler"
	"github.com/zen-rs/skyzen/core/router"
	"github.com/zen-rs/skyzen/middleware"
)

func TestLogging(t *testing.T) {
	t.Parallel()

	t.Run("logs method path status and size", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(slog.NewJSONHandler(&buf, nil))

		r := router.New[*router.Context]()
		r.Use(middleware.LoggingWithLogger[*router.Context](log))
		r.Get("/users/{id}", func(ctx *router.Context) handler.Response {
			return func(w http.ResponseWriter, req *http.Request) error {
				w.WriteHeader(http.StatusCreated)
				_, err := w.Write([]byte("made"))
				return err
			}
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/7?v=1", nil))

		out := buf.String()
		require.NotEmpty(t, out)
		assert.Contains(t, out, `"method":"GET"`)
		assert.Contains(t, out, `"path":"/users/7"`)
		assert.Contains(t, out, `"status":201`)
		assert.Contains(t, out, `"bytes_out":4`)
		assert.Contains(t, out, `"query":"v=1"`)
		assert.Contains(t, out, "request complete")
	})

	t.Run("includes request id when present", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(slog.NewJSONHandler(&buf, nil))

		r := router.New[*router.Context]()
		r.Use(
			middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{
				Generator: func() string { return "rid-123" },
			}),
			middleware.LoggingWithLogger[*router.Context](log),
		)
		r.Get("/x", okHandler)

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Contains(t, buf.String(), `"request_id":"rid-123"`)
	})

	t.Run("skip suppresses logging", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(slog.NewJSONHandler(&buf, nil))

		r := router.New[*router.Context]()
		r.Use(middleware.LoggingWithConfig[*router.Context](middleware.LoggingConfig{
			Logger: log,
			Skip: func(ctx handler.Context) bool {
				return ctx.Request().URL.Path == "/health"
			},
		}))
		r.Get("/health", okHandler)
		r.Get("/work", okHandler)

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Empty(t, buf.String())

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/work", nil))
		assert.NotEmpty(t, buf.String())
	})

	t.Run("render error lands in the log line", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(slog.NewJSONHandler(&buf, nil))

		r := router.New[*router.Context]()
		r.Use(middleware.LoggingWithLogger[*router.Context](log))
		r.Get("/fail", func(ctx *router.Context) handler.Response {
			return func(w http.ResponseWriter, req *http.Request) error {
				return assert.AnError
			}
		})

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))
		assert.Contains(t, buf.String(), `"error":`)
	})
}
