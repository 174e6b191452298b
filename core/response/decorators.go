package response

import (
	"fmt"
	"net/http"
	"time"

	"github.com/zen-rs/skyzen/core/handler"
)

// WithHeaders wraps a response with custom HTTP headers.
// Headers are set before the wrapped response renders.
func WithHeaders(resp handler.Response, headers map[string]string) handler.Response {
	if resp == nil {
		return nil
	}
	if len(headers) == 0 {
		return resp
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		return resp(w, r)
	}
}

// WithCookie wraps a response with an HTTP cookie.
// The cookie is set before the wrapped response renders.
func WithCookie(resp handler.Response, cookie *http.Cookie) handler.Response {
	if resp == nil || cookie == nil {
		return resp
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		http.SetCookie(w, cookie)
		return resp(w, r)
	}
}

// WithCache wraps a response with cache control headers.
// A positive maxAge allows caching for that duration; zero or negative
// disables caching entirely.
func WithCache(resp handler.Response, maxAge time.Duration) handler.Response {
	if resp == nil {
		return nil
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		if maxAge > 0 {
			seconds := int(maxAge.Seconds())
			w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", seconds))
			w.Header().Set("Expires", time.Now().Add(maxAge).Format(http.TimeFormat))
		} else {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		}
		return resp(w, r)
	}
}
