// Package router provides a compiled, trie-based HTTP router with
// type-safe handlers and a two-phase lifecycle.
//
// # Build phase and compilation
//
// Routes, groups, and mounts are declared on a Router, then the router is
// compiled into an immutable radix tree. Compilation happens on the first
// served request, or explicitly via Compile to surface conflicts during
// startup:
//
//	r := router.New[*router.Context]()
//	r.Use(middleware.RequestID[*router.Context]())
//	r.Get("/", func(ctx *router.Context) handler.Response {
//		return response.String("Hello")
//	})
//	r.Get("/users/{id}", showUser)
//	r.Get("/files/*path", serveArtifact)
//	if err := r.Compile(); err != nil {
//		log.Fatal(err)
//	}
//
// After compilation the router is frozen: registering another route
// panics, and the matching structure is read-only, so any number of
// goroutines can dispatch through it concurrently without locks.
//
// # Patterns and precedence
//
// Patterns are segment sequences of three kinds: literals, named params
// ("{id}" matches exactly one non-empty segment), and a trailing wildcard
// ("*" or "*name") capturing the rest of the path including slashes.
// At every depth literals win over params, and params win over wildcards,
// regardless of registration order. Two patterns with the same shape for
// the same method (for example "/users/{id}" and "/users/{name}" for GET)
// are rejected at compile time with ErrRouteConflict; this includes
// collisions introduced by mounting. Trailing slashes are normalized, so
// "/x" and "/x/" are one route.
//
// Lookup cost is proportional to the length of the request path and
// independent of the number of registered routes.
//
// # Mounting
//
// Mount and Route attach a sub-router under a prefix. Mounting copies the
// sub-router's route table into the parent with the prefix prepended and
// the sub-router's middleware chained inside the mounting scope's own
// middleware; no matching happens through the sub-router at request time.
package router
