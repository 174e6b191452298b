package handler

import (
	"context"
	"errors"
	"net/http"
)

// ErrBodyConsumed is returned by Context.ReadBody when the request body
// has already been read by an earlier caller within the same request.
// The body is a single-consumption resource: at most one body-consuming
// extractor may run per request.
var ErrBodyConsumed = errors.New("request body already consumed")

// Context defines the contract for request contexts in the framework.
// It carries the matched route parameters, a request-scoped value store,
// and exclusive ownership of the request body.
//
// Use the router's default context implementation, or provide a custom
// type via the router's context factory option.
type Context interface {
	context.Context

	// Request returns the *http.Request being processed.
	Request() *http.Request

	// ResponseWriter returns the http.ResponseWriter for the request.
	ResponseWriter() http.ResponseWriter

	// Param returns the value captured for a named route parameter,
	// or "" when the parameter is not present on the matched route.
	Param(key string) string

	// SetValue stores a request-scoped value. Values are visible through
	// the context.Context Value method for the remainder of the request
	// and are discarded when the request completes.
	SetValue(key, val any)

	// ReadBody reads and returns the full request body. The first call
	// consumes the body; subsequent calls return ErrBodyConsumed.
	ReadBody() ([]byte, error)
}
