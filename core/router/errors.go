package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/zen-rs/skyzen/core/handler"
)

// Routing errors surfaced per request.
var (
	ErrNotFound         = errors.New("route not found")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrNilResponse      = errors.New("handler returned nil response")
)

// Build and registration errors. These indicate programmer mistakes and are
// raised before the router starts serving: registration-time errors panic,
// compile-time errors are returned by Compile.
var (
	ErrRouteConflict    = errors.New("conflicting route registration")
	ErrRouterFrozen     = errors.New("router is frozen after compilation")
	ErrNoContextFactory = errors.New("no context factory provided and C is not *Context")
	ErrInvalidMethod    = errors.New("invalid http method")
	ErrInvalidPattern   = errors.New("routing pattern must begin with '/'")
	ErrNilRouter        = errors.New("cannot mount nil router")
	ErrNilSubrouter     = errors.New("subrouter function cannot be nil")

	// Pattern parsing errors
	ErrWildcardPosition = errors.New("wildcard '*' must be the last segment of a route")
	ErrParamDelimiter   = errors.New("route param closing delimiter '}' is missing")
	ErrEmptyParam       = errors.New("route param name cannot be empty")
	ErrDuplicateParam   = errors.New("routing pattern contains duplicate param key")
)

// panicError wraps a recovered panic value together with the stack captured
// at recovery time so the error handler can log it.
type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

// Stack returns the stack trace captured when the panic was recovered.
func (e *panicError) Stack() []byte {
	return e.stack
}

// defaultErrorHandler provides default error handling with plain text responses.
func defaultErrorHandler[C handler.Context](ctx C, err error) {
	w := ctx.ResponseWriter()

	// Prevent double-writing responses which causes HTTP protocol errors
	if ww, ok := w.(*responseWriter); ok && ww.Written() {
		return
	}

	// Honor errors that carry their own HTTP status.
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		http.Error(w, err.Error(), sc.StatusCode())
		return
	}

	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "404 Not Found", http.StatusNotFound)
	case errors.Is(err, ErrMethodNotAllowed):
		http.Error(w, "405 Method Not Allowed", http.StatusMethodNotAllowed)
	default:
		http.Error(w, "500 Internal Server Error", http.StatusInternalServerError)
	}
}
