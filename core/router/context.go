package router

import (
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/zen-rs/skyzen/core/handler"
)

// Context is the default request context implementation. It owns the
// captured route params, a request-scoped value store, and the request
// body resource. A Context is created per request and must not be
// retained after the response has been produced.
type Context struct {
	w      http.ResponseWriter
	r      *http.Request
	params map[string]string

	mu       sync.RWMutex
	values   map[any]any
	bodyRead bool
}

var _ handler.Context = (*Context)(nil)

// newContext creates a new Context for a single request.
func newContext(w http.ResponseWriter, r *http.Request, params map[string]string) *Context {
	return &Context{
		w:      w,
		r:      r,
		params: params,
	}
}

// Deadline delegates to the request's context.
func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

// Done delegates to the request's context.
func (c *Context) Done() <-chan struct{} {
	return c.r.Context().Done()
}

// Err delegates to the request's context.
func (c *Context) Err() error {
	return c.r.Context().Err()
}

// Value returns a value stored with SetValue, falling back to the
// request's context for unknown keys.
func (c *Context) Value(key any) any {
	c.mu.RLock()
	if c.values != nil {
		if v, ok := c.values[key]; ok {
			c.mu.RUnlock()
			return v
		}
	}
	c.mu.RUnlock()
	return c.r.Context().Value(key)
}

// SetValue stores a request-scoped value.
func (c *Context) SetValue(key, val any) {
	c.mu.Lock()
	if c.values == nil {
		c.values = make(map[any]any)
	}
	c.values[key] = val
	c.mu.Unlock()
}

// Request returns the *http.Request associated with the context.
func (c *Context) Request() *http.Request {
	return c.r
}

// ResponseWriter returns the http.ResponseWriter associated with the context.
func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.w
}

// Param returns the value of the URL parameter by key.
func (c *Context) Param(key string) string {
	if c.params == nil {
		return ""
	}
	return c.params[key]
}

// ReadBody reads the full request body. The body is a single-consumption
// resource: the first caller takes ownership and subsequent calls return
// handler.ErrBodyConsumed instead of silently observing an empty stream.
func (c *Context) ReadBody() ([]byte, error) {
	c.mu.Lock()
	if c.bodyRead {
		c.mu.Unlock()
		return nil, handler.ErrBodyConsumed
	}
	c.bodyRead = true
	c.mu.Unlock()

	if c.r.Body == nil {
		return nil, nil
	}
	defer c.r.Body.Close()
	return io.ReadAll(c.r.Body)
}
