package middleware

import (
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/zen-rs/skyzen/core/handler"
)

// CORSConfig configures the cross-origin resource sharing middleware.
type CORSConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool

	// AllowOrigins lists allowed origins. "*" allows all.
	// Default: all origins.
	AllowOrigins []string

	// AllowMethods lists allowed HTTP methods.
	// Default: GET, HEAD, PUT, PATCH, POST, DELETE.
	AllowMethods []string

	// AllowHeaders lists allowed request headers.
	// Default: common headers including Authorization and Content-Type.
	AllowHeaders []string

	// ExposeHeaders lists response headers exposed to the client.
	ExposeHeaders []string

	// AllowCredentials permits cookies and authorization headers.
	// Never combined with a wildcard origin.
	AllowCredentials bool

	// MaxAge is the preflight cache lifetime in seconds.
	MaxAge int

	// AllowOriginFunc validates origins dynamically and takes
	// precedence over AllowOrigins. It returns the origin value to
	// send back and whether the origin is allowed.
	AllowOriginFunc func(origin string) (string, bool)
}

// CORS creates a CORS middleware allowing all origins. Production
// deployments should use CORSWithConfig with an explicit origin list.
func CORS[C handler.Context]() handler.Middleware[C] {
	return CORSWithConfig[C](CORSConfig{})
}

// CORSWithConfig creates a CORS middleware with custom configuration.
// Preflight OPTIONS requests are answered directly with 204 (or 403
// when the origin or method is not allowed); actual requests get the
// CORS headers added around the handler's response.
func CORSWithConfig[C handler.Context](cfg CORSConfig) handler.Middleware[C] {
	if len(cfg.AllowMethods) == 0 {
		cfg.AllowMethods = []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPut,
			http.MethodPatch,
			http.MethodPost,
			http.MethodDelete,
		}
	}
	if len(cfg.AllowHeaders) == 0 {
		cfg.AllowHeaders = []string{
			"Accept",
			"Accept-Language",
			"Content-Language",
			"Content-Type",
			"Origin",
			"Authorization",
			"X-Request-ID",
		}
	}

	allowMethods := strings.Join(cfg.AllowMethods, ",")
	allowHeaders := strings.Join(cfg.AllowHeaders, ",")
	exposeHeaders := strings.Join(cfg.ExposeHeaders, ",")

	allowedOrigins := make(map[string]bool, len(cfg.AllowOrigins))
	for _, origin := range cfg.AllowOrigins {
		allowedOrigins[origin] = true
	}

	resolveOrigin := func(origin string) (string, bool) {
		switch {
		case cfg.AllowOriginFunc != nil:
			return cfg.AllowOriginFunc(origin)
		case len(cfg.AllowOrigins) == 0 || allowedOrigins["*"]:
			return "*", true
		case allowedOrigins[origin]:
			return origin, true
		}
		return "", false
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()
			allowedOrigin, allowed := resolveOrigin(req.Header.Get("Origin"))

			// A preflight is an OPTIONS request announcing the method
			// it wants to use.
			requestMethod := req.Header.Get("Access-Control-Request-Method")
			if req.Method == http.MethodOptions && requestMethod != "" {
				if !allowed || !slices.Contains(cfg.AllowMethods, requestMethod) {
					return func(w http.ResponseWriter, r *http.Request) error {
						w.WriteHeader(http.StatusForbidden)
						return nil
					}
				}

				requestHeaders := req.Header.Get("Access-Control-Request-Headers")
				return func(w http.ResponseWriter, r *http.Request) error {
					h := w.Header()
					h.Set("Access-Control-Allow-Origin", allowedOrigin)
					h.Set("Access-Control-Allow-Methods", allowMethods)
					if requestHeaders != "" {
						h.Set("Access-Control-Allow-Headers", allowHeaders)
					}
					// The CORS protocol forbids credentials with a
					// wildcard origin.
					if cfg.AllowCredentials && allowedOrigin != "*" {
						h.Set("Access-Control-Allow-Credentials", "true")
					}
					if cfg.MaxAge > 0 {
						h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
					}
					h.Add("Vary", "Origin")
					h.Add("Vary", "Access-Control-Request-Method")
					h.Add("Vary", "Access-Control-Request-Headers")

					w.WriteHeader(http.StatusNoContent)
					return nil
				}
			}

			resp := next(ctx)
			if !allowed || resp == nil {
				return resp
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", allowedOrigin)
				if cfg.AllowCredentials && allowedOrigin != "*" {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				if exposeHeaders != "" {
					h.Set("Access-Control-Expose-Headers", exposeHeaders)
				}
				h.Add("Vary", "Origin")

				return resp(w, r)
			}
		}
	}
}

// AllowOriginWildcard returns an AllowOriginFunc that reflects any
// non-empty origin. Unlike the static "*", the reflected origin works
// together with credentials.
func AllowOriginWildcard() func(origin string) (string, bool) {
	return func(origin string) (string, bool) {
		if origin == "" {
			return "", false
		}
		return origin, true
	}
}

// AllowOriginSubdomain returns an AllowOriginFunc that allows the
// given domain and all of its subdomains, with or without a port. The
// domain is given without a scheme, for example "example.com".
func AllowOriginSubdomain(domain string) func(origin string) (string, bool) {
	domain = strings.TrimPrefix(domain, "*.")
	domain = strings.TrimPrefix(domain, ".")
	domain = strings.ToLower(domain)
	suffix := "." + domain

	return func(origin string) (string, bool) {
		if origin == "" {
			return "", false
		}

		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			return "", false
		}

		host := strings.ToLower(u.Hostname())
		if host == domain || strings.HasSuffix(host, suffix) {
			return origin, true
		}
		return "", false
	}
}
