// Package middleware provides HTTP middleware built on handler.Middleware.
//
// Each middleware wraps a HandlerFunc and can act in two phases: before the
// handler runs, by touching the context or request, and after, by wrapping
// the handler.Response it returns. Because responses render lazily, the
// after phase observes the real status code and byte count.
//
// Available middleware:
//
//   - RequestID assigns a correlation ID to every request
//   - Logging emits one structured log line per request
//   - BodyLimit rejects oversized request bodies
//   - RateLimit applies per-client token bucket limiting
//   - CORS negotiates cross-origin access and answers preflights
//   - SecurityHeaders sets browser security policy headers
//   - Metrics records Prometheus counters and histograms
//   - Tracing opens an OpenTelemetry server span per request
//
// Middleware registered on a router wraps every route; middleware added via
// With or Group applies only to that branch.
package middleware
