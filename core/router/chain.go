package router

import "github.com/zen-rs/skyzen/core/handler"

// chain builds a single handler from a middleware stack and endpoint.
// Middlewares are applied in reverse so the first declared wraps outermost:
// for [M1, M2] and endpoint E the execution order is
// M1-pre, M2-pre, E, M2-post, M1-post.
func chain[C handler.Context](middlewares []handler.Middleware[C], endpoint handler.HandlerFunc[C]) handler.HandlerFunc[C] {
	h := endpoint
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
