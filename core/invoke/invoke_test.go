package invoke_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-rs/skyzen/core/handler"
	"github.com/zen-rs/skyzen/core/invoke"
	"github.com/zen-rs/skyzen/core/router"
)

func TestFunctionInvoke(t *testing.T) {
	t.Parallel()

	t.Run("dispatches through the handler", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/users/{id}", func(ctx *router.Context) handler.Response {
			id := ctx.Param("id")
			return func(w http.ResponseWriter, req *http.Request) error {
				w.Header().Set("Content-Type", "text/plain")
				_, err := fmt.Fprintf(w, "user %s", id)
				return err
			}
		})

		fn := invoke.NewHandler(r)

		resp, err := fn.Invoke(context.Background(), invoke.Request{
			Method: http.MethodGet,
			Path:   "/users/42",
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "user 42", string(resp.Body))
		assert.Equal(t, "text/plain", resp.Headers.Get("Content-Type"))
	})

	t.Run("factory runs once on first invocation", func(t *testing.T) {
		t.Parallel()

		var builds atomic.Int32
		fn := invoke.New(func() (http.Handler, error) {
			builds.Add(1)
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}), nil
		})

		assert.Equal(t, int32(0), builds.Load())

		for n := 0; n < 3; n++ {
			resp, err := fn.Invoke(context.Background(), invoke.Request{
				Method: http.MethodGet,
				Path:   "/",
			})
			require.NoError(t, err)
			assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		}
		assert.Equal(t, int32(1), builds.Load())
	})

	t.Run("build failure is sticky", func(t *testing.T) {
		t.Parallel()

		buildErr := errors.New("bad wiring")
		var builds atomic.Int32
		fn := invoke.New(func() (http.Handler, error) {
			builds.Add(1)
			return nil, buildErr
		})

		for n := 0; n < 2; n++ {
			_, err := fn.Invoke(context.Background(), invoke.Request{
				Method: http.MethodGet,
				Path:   "/",
			})
			assert.ErrorIs(t, err, buildErr)
		}
		assert.Equal(t, int32(1), builds.Load())
	})

	t.Run("request details reach the handler", func(t *testing.T) {
		t.Parallel()

		var gotMethod, gotQuery, gotBody, gotHeader string
		fn := invoke.NewHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotQuery = r.URL.RawQuery
			gotHeader = r.Header.Get("X-Token")
			b, _ := io.ReadAll(r.Body)
			gotBody = string(b)
		}))

		_, err := fn.Invoke(context.Background(), invoke.Request{
			Method:  http.MethodPost,
			Path:    "/submit?draft=1",
			Headers: http.Header{"X-Token": []string{"abc"}},
			Body:    []byte("payload"),
		})
		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "draft=1", gotQuery)
		assert.Equal(t, "abc", gotHeader)
		assert.Equal(t, "payload", gotBody)
	})

	t.Run("no state leaks between invocations", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Post("/read", func(ctx *router.Context) handler.Response {
			body, err := ctx.ReadBody()
			if err != nil {
				return func(w http.ResponseWriter, req *http.Request) error {
					w.WriteHeader(http.StatusBadRequest)
					return nil
				}
			}
			return func(w http.ResponseWriter, req *http.Request) error {
				_, werr := w.Write(body)
				return werr
			}
		})

		fn := invoke.NewHandler(r)

		// Each call gets its own body resource; consuming it in one
		// invocation must not poison the next.
		for i := 0; i < 3; i++ {
			resp, err := fn.Invoke(context.Background(), invoke.Request{
				Method: http.MethodPost,
				Path:   "/read",
				Body:   []byte(fmt.Sprintf("call-%d", i)),
			})
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, fmt.Sprintf("call-%d", i), string(resp.Body))
		}
	})

	t.Run("concurrent invocations are isolated", func(t *testing.T) {
		t.Parallel()

		fn := invoke.NewHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			w.Write(b)
		}))

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				want := fmt.Sprintf("req-%d", n)
				resp, err := fn.Invoke(context.Background(), invoke.Request{
					Method: http.MethodPost,
					Path:   "/",
					Body:   []byte(want),
				})
				assert.NoError(t, err)
				assert.Equal(t, want, string(resp.Body))
			}(i)
		}
		wg.Wait()
	})

	t.Run("validation errors", func(t *testing.T) {
		t.Parallel()

		fn := invoke.NewHandler(http.NewServeMux())

		_, err := fn.Invoke(context.Background(), invoke.Request{Path: "/"})
		assert.ErrorIs(t, err, invoke.ErrEmptyMethod)

		_, err = fn.Invoke(context.Background(), invoke.Request{Method: http.MethodGet})
		assert.ErrorIs(t, err, invoke.ErrEmptyPath)
	})

	t.Run("handler that writes nothing yields 200", func(t *testing.T) {
		t.Parallel()

		fn := invoke.NewHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		resp, err := fn.Invoke(context.Background(), invoke.Request{
			Method: http.MethodGet,
			Path:   "/",
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, resp.Body)
	})
}
