package router

import (
	"net/http"

	"github.com/zen-rs/skyzen/core/handler"
)

// Router is the main routing interface for handling HTTP requests.
// It supports middleware chaining, route grouping, and sub-router mounting.
//
// A router has two phases. During the build phase routes and middleware are
// registered; Compile then freezes the router into an immutable matching
// structure that is safe to share across goroutines without locking.
// Compile is implied by the first request served, so calling it explicitly
// is only needed to surface build errors at startup.
type Router[C handler.Context] interface {
	http.Handler
	Routes

	// HTTP method handlers
	Get(pattern string, h handler.HandlerFunc[C])
	Post(pattern string, h handler.HandlerFunc[C])
	Put(pattern string, h handler.HandlerFunc[C])
	Delete(pattern string, h handler.HandlerFunc[C])
	Patch(pattern string, h handler.HandlerFunc[C])
	Head(pattern string, h handler.HandlerFunc[C])
	Options(pattern string, h handler.HandlerFunc[C])
	Connect(pattern string, h handler.HandlerFunc[C])
	Trace(pattern string, h handler.HandlerFunc[C])

	// Generic handlers
	Handle(pattern string, h handler.HandlerFunc[C])
	Method(pattern string, h handler.HandlerFunc[C], methods ...string)

	// Middleware
	Use(middlewares ...handler.Middleware[C])
	With(middlewares ...handler.Middleware[C]) Router[C]

	// Grouping and mounting
	Group(fn func(r Router[C])) Router[C]
	Route(pattern string, fn func(r Router[C])) Router[C]
	Mount(pattern string, sub Router[C])

	// Compile freezes the router and builds the matching structure.
	// It returns ErrRouteConflict when two registered patterns are
	// indistinguishable to the matcher. Compile is idempotent.
	Compile() error
}

// Routes provides route introspection capabilities for debugging, monitoring,
// and external schema generation.
type Routes interface {
	Routes() []Route
}

// Route describes a single registered route.
type Route struct {
	Method  string
	Pattern string
}

// New creates a new router with the given options.
// The router supports generic context types for type-safe request handling.
func New[C handler.Context](opts ...Option[C]) Router[C] {
	return newMux[C](opts...)
}
