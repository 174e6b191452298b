package router_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-rs/skyzen/core/handler"
	"github.com/zen-rs/skyzen/core/router"
)

func TestContextReadBody(t *testing.T) {
	t.Parallel()

	t.Run("first read returns the body", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Post("/echo", func(ctx *router.Context) handler.Response {
			body, err := ctx.ReadBody()
			require.NoError(t, err)
			return func(w http.ResponseWriter, req *http.Request) error {
				_, err := w.Write(body)
				return err
			}
		})

		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("payload"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "payload", w.Body.String())
	})

	t.Run("second read fails with ErrBodyConsumed", func(t *testing.T) {
		t.Parallel()

		var firstErr, secondErr error
		r := router.New[*router.Context]()
		r.Post("/twice", func(ctx *router.Context) handler.Response {
			_, firstErr = ctx.ReadBody()
			_, secondErr = ctx.ReadBody()
			return func(w http.ResponseWriter, req *http.Request) error { return nil }
		})

		req := httptest.NewRequest(http.MethodPost, "/twice", strings.NewReader("payload"))
		r.ServeHTTP(httptest.NewRecorder(), req)

		assert.NoError(t, firstErr)
		assert.ErrorIs(t, secondErr, handler.ErrBodyConsumed)
	})

	t.Run("nil body reads as empty", func(t *testing.T) {
		t.Parallel()

		var body []byte
		var err error
		r := router.New[*router.Context]()
		r.Get("/nobody", func(ctx *router.Context) handler.Response {
			body, err = ctx.ReadBody()
			return func(w http.ResponseWriter, req *http.Request) error { return nil }
		})

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nobody", nil))

		assert.NoError(t, err)
		assert.Empty(t, body)
	})
}

func TestContextValues(t *testing.T) {
	t.Parallel()

	t.Run("set and get request-scoped values", func(t *testing.T) {
		t.Parallel()

		type key struct{}
		var got any

		r := router.New[*router.Context]()
		r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return func(ctx *router.Context) handler.Response {
				ctx.SetValue(key{}, "stored")
				return next(ctx)
			}
		})
		r.Get("/x", func(ctx *router.Context) handler.Response {
			got = ctx.Value(key{})
			return func(w http.ResponseWriter, req *http.Request) error { return nil }
		})

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, "stored", got)
	})

	t.Run("falls back to request context", func(t *testing.T) {
		t.Parallel()

		var got any
		r := router.New[*router.Context]()
		r.Get("/x", func(ctx *router.Context) handler.Response {
			got = ctx.Value("unknown-key")
			return func(w http.ResponseWriter, req *http.Request) error { return nil }
		})

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Nil(t, got)
	})

	t.Run("missing param is empty", func(t *testing.T) {
		t.Parallel()

		var got string
		r := router.New[*router.Context]()
		r.Get("/x", func(ctx *router.Context) handler.Response {
			got = ctx.Param("nope")
			return func(w http.ResponseWriter, req *http.Request) error { return nil }
		})

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Empty(t, got)
	})
}
