package invoke

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
)

var (
	// ErrEmptyMethod is returned when the request has no HTTP method.
	ErrEmptyMethod = errors.New("request method is required")

	// ErrEmptyPath is returned when the request has no path.
	ErrEmptyPath = errors.New("request path is required")
)

// Request is a single inbound call in transport-neutral form. Headers and
// Body are optional; Path may carry a query string.
type Request struct {
	Method     string
	Path       string
	Headers    http.Header
	Body       []byte
	RemoteAddr string
}

// Response is the rendered result of one invocation.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Function adapts an http.Handler to single-call dispatch. The handler is
// built lazily on the first invocation and reused for every call after; each
// invocation gets a fresh request and writer, so no state crosses calls.
// Safe for concurrent use.
type Function struct {
	build    func() (http.Handler, error)
	once     sync.Once
	handler  http.Handler
	buildErr error
	logger   *slog.Logger
}

// Option configures a Function.
type Option func(*Function)

// WithLogger sets a custom logger for invocation diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Function) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates a Function around a handler factory. The factory runs at most
// once, on the first call to Invoke, which keeps construction cost out of
// process startup.
func New(build func() (http.Handler, error), opts ...Option) *Function {
	f := &Function{
		build:  build,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewHandler creates a Function around an already-built handler.
func NewHandler(h http.Handler, opts ...Option) *Function {
	return New(func() (http.Handler, error) { return h, nil }, opts...)
}

// Invoke dispatches one request through the handler and returns the captured
// response. A build failure is returned on every call without retrying.
func (f *Function) Invoke(ctx context.Context, req Request) (Response, error) {
	f.once.Do(func() {
		f.logger.DebugContext(ctx, "building handler")
		f.handler, f.buildErr = f.build()
		if f.buildErr == nil && f.handler == nil {
			f.buildErr = errors.New("handler factory returned nil")
		}
	})
	if f.buildErr != nil {
		return Response{}, fmt.Errorf("handler build failed: %w", f.buildErr)
	}

	httpReq, err := toHTTPRequest(ctx, req)
	if err != nil {
		return Response{}, err
	}

	rec := newRecorder()
	f.handler.ServeHTTP(rec, httpReq)

	return rec.result(), nil
}

// toHTTPRequest materializes a Request as a *http.Request bound to ctx.
func toHTTPRequest(ctx context.Context, req Request) (*http.Request, error) {
	if req.Method == "" {
		return nil, ErrEmptyMethod
	}
	if req.Path == "" {
		return nil, ErrEmptyPath
	}

	u, err := url.ParseRequestURI(req.Path)
	if err != nil {
		return nil, fmt.Errorf("invalid request path %q: %w", req.Path, err)
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	for k, vals := range req.Headers {
		for _, v := range vals {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.RemoteAddr = req.RemoteAddr
	httpReq.ContentLength = int64(len(req.Body))

	return httpReq, nil
}
