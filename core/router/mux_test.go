package router_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-rs/skyzen/core/handler"
	"github.com/zen-rs/skyzen/core/router"
)

func textHandler(body string) handler.HandlerFunc[*router.Context] {
	return func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			_, err := w.Write([]byte(body))
			return err
		}
	}
}

func paramEcho(key string) handler.HandlerFunc[*router.Context] {
	return func(ctx *router.Context) handler.Response {
		v := ctx.Param(key)
		return func(w http.ResponseWriter, r *http.Request) error {
			_, err := w.Write([]byte(v))
			return err
		}
	}
}

func serve(t *testing.T, r router.Router[*router.Context], method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMuxDispatch(t *testing.T) {
	t.Parallel()

	t.Run("static route", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/ping", textHandler("pong"))

		w := serve(t, r, http.MethodGet, "/ping")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "pong", w.Body.String())
	})

	t.Run("route params are captured", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/users/{id}", paramEcho("id"))

		w := serve(t, r, http.MethodGet, "/users/42")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "42", w.Body.String())
	})

	t.Run("multiple params", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/orgs/{org}/repos/{repo}", func(ctx *router.Context) handler.Response {
			out := ctx.Param("org") + "/" + ctx.Param("repo")
			return func(w http.ResponseWriter, r *http.Request) error {
				_, err := w.Write([]byte(out))
				return err
			}
		})

		w := serve(t, r, http.MethodGet, "/orgs/zen/repos/core")
		assert.Equal(t, "zen/core", w.Body.String())
	})

	t.Run("named wildcard captures remainder", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/static/*filepath", paramEcho("filepath"))

		w := serve(t, r, http.MethodGet, "/static/css/site.css")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "css/site.css", w.Body.String())
	})

	t.Run("literal beats param beats wildcard", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/users/all", textHandler("literal"))
		r.Get("/users/{id}", textHandler("param"))
		r.Get("/users/*rest", textHandler("wildcard"))

		assert.Equal(t, "literal", serve(t, r, http.MethodGet, "/users/all").Body.String())
		assert.Equal(t, "param", serve(t, r, http.MethodGet, "/users/7").Body.String())
		assert.Equal(t, "wildcard", serve(t, r, http.MethodGet, "/users/7/posts").Body.String())
	})

	t.Run("registration order does not matter", func(t *testing.T) {
		t.Parallel()

		// Same routes, opposite order: matching must be identical.
		r := router.New[*router.Context]()
		r.Get("/users/*rest", textHandler("wildcard"))
		r.Get("/users/{id}", textHandler("param"))
		r.Get("/users/all", textHandler("literal"))

		assert.Equal(t, "literal", serve(t, r, http.MethodGet, "/users/all").Body.String())
		assert.Equal(t, "param", serve(t, r, http.MethodGet, "/users/7").Body.String())
		assert.Equal(t, "wildcard", serve(t, r, http.MethodGet, "/users/7/posts").Body.String())
	})

	t.Run("trailing slash resolves to same route", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/users", textHandler("users"))

		assert.Equal(t, http.StatusOK, serve(t, r, http.MethodGet, "/users").Code)
		assert.Equal(t, http.StatusOK, serve(t, r, http.MethodGet, "/users/").Code)
	})

	t.Run("root path", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/", textHandler("home"))

		w := serve(t, r, http.MethodGet, "/")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "home", w.Body.String())
	})

	t.Run("unmatched path returns 404", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/users", textHandler("users"))

		w := serve(t, r, http.MethodGet, "/posts")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("matched path wrong method returns 405 with Allow", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/users", textHandler("list"))
		r.Post("/users", textHandler("create"))

		w := serve(t, r, http.MethodDelete, "/users")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, "GET, POST", w.Header().Get("Allow"))
	})

	t.Run("method helper registers multiple methods", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Method("/things", textHandler("ok"), http.MethodGet, http.MethodPost)

		assert.Equal(t, http.StatusOK, serve(t, r, http.MethodGet, "/things").Code)
		assert.Equal(t, http.StatusOK, serve(t, r, http.MethodPost, "/things").Code)
		assert.Equal(t, http.StatusMethodNotAllowed, serve(t, r, http.MethodPut, "/things").Code)
	})

	t.Run("handle registers all methods", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Handle("/any", textHandler("ok"))

		for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
			assert.Equal(t, http.StatusOK, serve(t, r, m, "/any").Code, m)
		}
	})

	t.Run("nil response returns 500", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/broken", func(ctx *router.Context) handler.Response {
			return nil
		})

		w := serve(t, r, http.MethodGet, "/broken")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("render error goes through error handler", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/fail", func(ctx *router.Context) handler.Response {
			return func(w http.ResponseWriter, r *http.Request) error {
				return errors.New("render exploded")
			}
		})

		w := serve(t, r, http.MethodGet, "/fail")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("handler panic is contained as 500", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/boom", func(ctx *router.Context) handler.Response {
			panic("kaboom")
		})
		r.Get("/fine", textHandler("still here"))

		w := serve(t, r, http.MethodGet, "/boom")
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		// The router keeps serving other routes afterwards.
		w = serve(t, r, http.MethodGet, "/fine")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("custom error handler", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context](
			router.WithErrorHandler[*router.Context](func(ctx *router.Context, err error) {
				ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
			}),
		)
		r.Get("/users", textHandler("users"))

		w := serve(t, r, http.MethodGet, "/missing")
		assert.Equal(t, http.StatusTeapot, w.Code)
	})
}

func TestMuxCompile(t *testing.T) {
	t.Parallel()

	t.Run("compile is idempotent", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/ping", textHandler("pong"))

		require.NoError(t, r.Compile())
		require.NoError(t, r.Compile())
	})

	t.Run("identical patterns conflict", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/users", textHandler("a"))
		r.Get("/users", textHandler("b"))

		err := r.Compile()
		require.Error(t, err)
		assert.ErrorIs(t, err, router.ErrRouteConflict)
	})

	t.Run("equal-shape params conflict", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/users/{id}", textHandler("a"))
		r.Get("/users/{name}", textHandler("b"))

		err := r.Compile()
		require.Error(t, err)
		assert.ErrorIs(t, err, router.ErrRouteConflict)
	})

	t.Run("same pattern different methods do not conflict", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/users", textHandler("list"))
		r.Post("/users", textHandler("create"))

		require.NoError(t, r.Compile())
	})

	t.Run("different precedence classes do not conflict", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/users/all", textHandler("a"))
		r.Get("/users/{id}", textHandler("b"))
		r.Get("/users/*rest", textHandler("c"))

		require.NoError(t, r.Compile())
	})

	t.Run("trailing slash variants conflict", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/users", textHandler("a"))
		r.Get("/users/", textHandler("b"))

		err := r.Compile()
		require.Error(t, err)
		assert.ErrorIs(t, err, router.ErrRouteConflict)
	})

	t.Run("registration after compile panics", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/users", textHandler("users"))
		require.NoError(t, r.Compile())

		assert.Panics(t, func() {
			r.Get("/posts", textHandler("posts"))
		})
	})

	t.Run("first request compiles implicitly", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/ping", textHandler("pong"))

		w := serve(t, r, http.MethodGet, "/ping")
		assert.Equal(t, http.StatusOK, w.Code)

		assert.Panics(t, func() {
			r.Get("/late", textHandler("late"))
		})
	})

	t.Run("conflict surfaces as panic on first request", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/users/{id}", textHandler("a"))
		r.Get("/users/{name}", textHandler("b"))

		assert.Panics(t, func() {
			serve(t, r, http.MethodGet, "/users/1")
		})
	})
}

func TestMuxMiddleware(t *testing.T) {
	t.Parallel()

	// marker appends a visit record around handler invocation.
	marker := func(name string, log *[]string) handler.Middleware[*router.Context] {
		return func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return func(ctx *router.Context) handler.Response {
				*log = append(*log, name+"-pre")
				resp := next(ctx)
				*log = append(*log, name+"-post")
				return resp
			}
		}
	}

	t.Run("onion ordering", func(t *testing.T) {
		t.Parallel()

		var log []string
		r := router.New[*router.Context]()
		r.Use(marker("m1", &log), marker("m2", &log))
		r.Get("/x", func(ctx *router.Context) handler.Response {
			log = append(log, "endpoint")
			return func(w http.ResponseWriter, r *http.Request) error { return nil }
		})

		serve(t, r, http.MethodGet, "/x")
		assert.Equal(t, []string{"m1-pre", "m2-pre", "endpoint", "m2-post", "m1-post"}, log)
	})

	t.Run("short circuit skips inner layers and endpoint", func(t *testing.T) {
		t.Parallel()

		var log []string
		auth := func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return func(ctx *router.Context) handler.Response {
				if ctx.Request().Header.Get("X-Auth") == "" {
					return func(w http.ResponseWriter, r *http.Request) error {
						w.WriteHeader(http.StatusUnauthorized)
						return nil
					}
				}
				return next(ctx)
			}
		}

		r := router.New[*router.Context]()
		r.Use(auth, marker("inner", &log))
		r.Get("/secret", func(ctx *router.Context) handler.Response {
			log = append(log, "endpoint")
			return func(w http.ResponseWriter, r *http.Request) error {
				_, err := w.Write([]byte("top secret"))
				return err
			}
		})

		w := serve(t, r, http.MethodGet, "/secret")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, log)

		req := httptest.NewRequest(http.MethodGet, "/secret", nil)
		req.Header.Set("X-Auth", "token")
		ww := httptest.NewRecorder()
		r.ServeHTTP(ww, req)
		assert.Equal(t, http.StatusOK, ww.Code)
		assert.Equal(t, "top secret", ww.Body.String())
		assert.Equal(t, []string{"inner-pre", "endpoint", "inner-post"}, log)
	})

	t.Run("middleware can post-process the response", func(t *testing.T) {
		t.Parallel()

		stamp := func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return func(ctx *router.Context) handler.Response {
				resp := next(ctx)
				if resp == nil {
					return nil
				}
				return func(w http.ResponseWriter, r *http.Request) error {
					w.Header().Set("X-Stamped", "yes")
					return resp(w, r)
				}
			}
		}

		r := router.New[*router.Context]()
		r.Use(stamp)
		r.Get("/x", textHandler("ok"))

		w := serve(t, r, http.MethodGet, "/x")
		assert.Equal(t, "yes", w.Header().Get("X-Stamped"))
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("use after routes panics", func(t *testing.T) {
		t.Parallel()

		var log []string
		r := router.New[*router.Context]()
		r.Get("/x", textHandler("ok"))

		assert.Panics(t, func() {
			r.Use(marker("late", &log))
		})
	})

	t.Run("with scopes middleware to a branch", func(t *testing.T) {
		t.Parallel()

		var log []string
		r := router.New[*router.Context]()
		r.With(marker("scoped", &log)).Get("/guarded", textHandler("ok"))
		r.Get("/open", textHandler("ok"))

		serve(t, r, http.MethodGet, "/open")
		assert.Empty(t, log)

		serve(t, r, http.MethodGet, "/guarded")
		assert.Equal(t, []string{"scoped-pre", "scoped-post"}, log)
	})

	t.Run("group inherits and extends middleware", func(t *testing.T) {
		t.Parallel()

		var log []string
		r := router.New[*router.Context]()
		r.Use(marker("outer", &log))
		r.Group(func(g router.Router[*router.Context]) {
			g.Use(marker("inner", &log))
			g.Get("/grouped", textHandler("ok"))
		})

		serve(t, r, http.MethodGet, "/grouped")
		assert.Equal(t, []string{"outer-pre", "inner-pre", "inner-post", "outer-post"}, log)
	})
}

func TestMuxMount(t *testing.T) {
	t.Parallel()

	t.Run("routes are re-registered under the prefix", func(t *testing.T) {
		t.Parallel()

		sub := router.New[*router.Context]()
		sub.Get("/users", textHandler("sub users"))
		sub.Get("/users/{id}", paramEcho("id"))

		r := router.New[*router.Context]()
		r.Mount("/api/v1", sub)

		assert.Equal(t, "sub users", serve(t, r, http.MethodGet, "/api/v1/users").Body.String())
		assert.Equal(t, "9", serve(t, r, http.MethodGet, "/api/v1/users/9").Body.String())
		assert.Equal(t, http.StatusNotFound, serve(t, r, http.MethodGet, "/users").Code)
	})

	t.Run("sub-router root maps to the prefix itself", func(t *testing.T) {
		t.Parallel()

		sub := router.New[*router.Context]()
		sub.Get("/", textHandler("index"))

		r := router.New[*router.Context]()
		r.Mount("/admin", sub)

		assert.Equal(t, "index", serve(t, r, http.MethodGet, "/admin").Body.String())
	})

	t.Run("sub-router middleware rides along", func(t *testing.T) {
		t.Parallel()

		var log []string
		sub := router.New[*router.Context]()
		sub.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return func(ctx *router.Context) handler.Response {
				log = append(log, "sub-mw")
				return next(ctx)
			}
		})
		sub.Get("/users", textHandler("ok"))

		r := router.New[*router.Context]()
		r.Mount("/api", sub)

		serve(t, r, http.MethodGet, "/api/users")
		assert.Equal(t, []string{"sub-mw"}, log)
	})

	t.Run("mounted router is frozen", func(t *testing.T) {
		t.Parallel()

		sub := router.New[*router.Context]()
		sub.Get("/users", textHandler("ok"))

		r := router.New[*router.Context]()
		r.Mount("/api", sub)

		assert.Panics(t, func() {
			sub.Get("/late", textHandler("late"))
		})
	})

	t.Run("cross-mount collisions fail compile", func(t *testing.T) {
		t.Parallel()

		sub := router.New[*router.Context]()
		sub.Get("/users", textHandler("sub"))

		r := router.New[*router.Context]()
		r.Get("/api/users", textHandler("direct"))
		r.Mount("/api", sub)

		err := r.Compile()
		require.Error(t, err)
		assert.ErrorIs(t, err, router.ErrRouteConflict)
	})

	t.Run("route builds and mounts in one call", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Route("/api", func(api router.Router[*router.Context]) {
			api.Get("/health", textHandler("healthy"))
		})

		assert.Equal(t, "healthy", serve(t, r, http.MethodGet, "/api/health").Body.String())
	})

	t.Run("mounting an inline group panics", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		g := r.With()

		other := router.New[*router.Context]()
		assert.Panics(t, func() {
			other.Mount("/x", g)
		})
	})
}

func TestMuxRoutes(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/users", textHandler("list"))
	r.Post("/users", textHandler("create"))
	r.Get("/users/{id}", paramEcho("id"))

	rts := r.Routes()
	require.Len(t, rts, 3)

	seen := make(map[string]bool)
	for _, rt := range rts {
		seen[fmt.Sprintf("%s %s", rt.Method, rt.Pattern)] = true
	}
	assert.True(t, seen["GET /users"])
	assert.True(t, seen["POST /users"])
	assert.True(t, seen["GET /users/{id}"])
}

func TestMuxValidation(t *testing.T) {
	t.Parallel()

	t.Run("pattern must start with slash", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		assert.Panics(t, func() {
			r.Get("users", textHandler("x"))
		})
	})

	t.Run("duplicate param keys panic at registration", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		assert.Panics(t, func() {
			r.Get("/a/{id}/b/{id}", textHandler("x"))
		})
	})

	t.Run("unknown method panics", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		assert.Panics(t, func() {
			r.Method("/x", textHandler("x"), "YEET")
		})
	})

	t.Run("mounting nil panics", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		assert.Panics(t, func() {
			r.Mount("/x", nil)
		})
	})
}
