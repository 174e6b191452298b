package middleware

import (
	"maps"
	"net/http"

	"github.com/zen-rs/skyzen/core/handler"
)

// SecurityHeadersConfig configures the security headers middleware.
// Empty fields leave the corresponding header unset.
type SecurityHeadersConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool

	// ContentTypeOptions controls X-Content-Type-Options
	ContentTypeOptions string

	// FrameOptions controls X-Frame-Options
	FrameOptions string

	// XSSProtection controls X-XSS-Protection
	XSSProtection string

	// StrictTransportSecurity controls Strict-Transport-Security
	StrictTransportSecurity string

	// ContentSecurityPolicy controls Content-Security-Policy
	ContentSecurityPolicy string

	// ReferrerPolicy controls Referrer-Policy
	ReferrerPolicy string

	// PermissionsPolicy controls Permissions-Policy
	PermissionsPolicy string

	// CrossOriginOpenerPolicy controls Cross-Origin-Opener-Policy
	CrossOriginOpenerPolicy string

	// CrossOriginEmbedderPolicy controls Cross-Origin-Embedder-Policy
	CrossOriginEmbedderPolicy string

	// CrossOriginResourcePolicy controls Cross-Origin-Resource-Policy
	CrossOriginResourcePolicy string

	// CustomHeaders adds additional headers to every response
	CustomHeaders map[string]string

	// IsDevelopment disables HSTS so local HTTP traffic keeps working
	IsDevelopment bool
}

// Predefined configurations, from most to least restrictive.
var (
	// StrictSecurity blocks iframe embedding, external resources, and
	// inline content entirely.
	StrictSecurity = SecurityHeadersConfig{
		ContentTypeOptions:        "nosniff",
		FrameOptions:              "DENY",
		XSSProtection:             "1; mode=block",
		StrictTransportSecurity:   "max-age=63072000; includeSubDomains; preload",
		ContentSecurityPolicy:     "default-src 'none'; script-src 'self'; style-src 'self'; img-src 'self'; font-src 'self'; connect-src 'self'; frame-ancestors 'none'; base-uri 'self'; form-action 'self'",
		ReferrerPolicy:            "no-referrer",
		PermissionsPolicy:         "accelerometer=(), camera=(), geolocation=(), gyroscope=(), magnetometer=(), microphone=(), payment=(), usb=()",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginResourcePolicy: "same-origin",
	}

	// BalancedSecurity keeps same-origin embedding and inline content
	// working while covering the common attack classes.
	BalancedSecurity = SecurityHeadersConfig{
		ContentTypeOptions:        "nosniff",
		FrameOptions:              "SAMEORIGIN",
		XSSProtection:             "1; mode=block",
		StrictTransportSecurity:   "max-age=31536000; includeSubDomains",
		ContentSecurityPolicy:     "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:; font-src 'self' data:",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		PermissionsPolicy:         "geolocation=(), microphone=(), camera=()",
		CrossOriginOpenerPolicy:   "same-origin-allow-popups",
		CrossOriginResourcePolicy: "cross-origin",
	}

	// RelaxedSecurity sets only the headers that never break
	// third-party integrations.
	RelaxedSecurity = SecurityHeadersConfig{
		ContentTypeOptions: "nosniff",
		XSSProtection:      "1; mode=block",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}
)

// SecurityHeaders creates a security headers middleware with the
// balanced configuration.
func SecurityHeaders[C handler.Context]() handler.Middleware[C] {
	return SecurityHeadersWithConfig[C](BalancedSecurity)
}

// SecurityHeadersStrict creates a security headers middleware with
// the strict configuration.
func SecurityHeadersStrict[C handler.Context]() handler.Middleware[C] {
	return SecurityHeadersWithConfig[C](StrictSecurity)
}

// SecurityHeadersWithConfig creates a security headers middleware
// with custom configuration. Headers are resolved once at
// registration and set on every response before it renders.
func SecurityHeadersWithConfig[C handler.Context](cfg SecurityHeadersConfig) handler.Middleware[C] {
	if cfg.IsDevelopment {
		cfg.StrictTransportSecurity = ""
	}

	headers := make(map[string]string)
	for name, value := range map[string]string{
		"X-Content-Type-Options":       cfg.ContentTypeOptions,
		"X-Frame-Options":              cfg.FrameOptions,
		"X-XSS-Protection":             cfg.XSSProtection,
		"Strict-Transport-Security":    cfg.StrictTransportSecurity,
		"Content-Security-Policy":      cfg.ContentSecurityPolicy,
		"Referrer-Policy":              cfg.ReferrerPolicy,
		"Permissions-Policy":           cfg.PermissionsPolicy,
		"Cross-Origin-Opener-Policy":   cfg.CrossOriginOpenerPolicy,
		"Cross-Origin-Embedder-Policy": cfg.CrossOriginEmbedderPolicy,
		"Cross-Origin-Resource-Policy": cfg.CrossOriginResourcePolicy,
	} {
		if value != "" {
			headers[name] = value
		}
	}
	maps.Copy(headers, cfg.CustomHeaders)

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			resp := next(ctx)
			if resp == nil {
				return nil
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				for key, value := range headers {
					w.Header().Set(key, value)
				}
				return resp(w, r)
			}
		}
	}
}
