// Package skyzen is a typed HTTP routing and dispatch toolkit.
//
// The module is organized into core framework packages, middleware,
// and standalone utilities:
//
//   - github.com/zen-rs/skyzen/core/handler: core contracts (Context,
//     HandlerFunc, Middleware, and the deferred Response type)
//   - github.com/zen-rs/skyzen/core/router: two-phase radix tree router
//     with mounting, inline groups, and compile-time conflict detection
//   - github.com/zen-rs/skyzen/core/extract: typed request extractors
//     for params, headers, queries, and bodies
//   - github.com/zen-rs/skyzen/core/adapter: adapters binding typed
//     functions to extractors and responders
//   - github.com/zen-rs/skyzen/core/response: response constructors,
//     structured HTTP errors, and error handlers
//   - github.com/zen-rs/skyzen/core/server: graceful http.Server
//     lifecycle with env, dotenv, and YAML configuration
//   - github.com/zen-rs/skyzen/core/invoke: single-call dispatch for
//     serverless and embedded execution
//   - github.com/zen-rs/skyzen/core/health: liveness and readiness
//     probe handlers
//   - github.com/zen-rs/skyzen/core/logger: shared slog attribute
//     constructors
//   - github.com/zen-rs/skyzen/middleware: request ID, logging, body
//     limit, rate limit, metrics, and tracing middleware
//   - github.com/zen-rs/skyzen/pkg/clientip: real client IP resolution
//     behind proxies and CDNs
//   - github.com/zen-rs/skyzen/pkg/ratelimiter: token bucket rate
//     limiting with pluggable stores
//
// For detailed documentation on any package, use the go doc command:
//
//	go doc github.com/zen-rs/skyzen/core/router
package skyzen
