package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/zen-rs/skyzen/core/handler"
)

// route is a single entry in the build-phase route table. Inline and
// mounted middleware scopes are already chained into the handler; the
// root router's own middleware is applied during compile.
type route[C handler.Context] struct {
	method  methodTyp
	pattern string
	handler handler.HandlerFunc[C]
}

// mux is the private implementation of the Router interface.
type mux[C handler.Context] struct {
	routes       []route[C]
	middlewares  []handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request, map[string]string) C
	logger       *slog.Logger

	parent *mux[C] // for inline groups
	inline bool

	// compiled state, immutable once built
	compileOnce sync.Once
	compileErr  error
	tree        *node[C]
	frozen      atomic.Bool
}

// newMux creates a new router instance.
func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)), // No-op logger by default
	}

	for _, opt := range opts {
		opt(m)
	}

	// If no context factory provided, require it for non-default contexts
	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request, params map[string]string) C {
			// Only support the default *Context type without a factory.
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(newContext(w, r, params)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	return m
}

// root resolves the owning router for inline groups.
func (m *mux[C]) root() *mux[C] {
	curr := m
	for curr.inline && curr.parent != nil {
		curr = curr.parent
	}
	return curr
}

// Compile freezes the router and builds the matching tree. After Compile
// no further routes or middleware may be registered. Safe to call from
// multiple goroutines; only the first call does the work.
func (m *mux[C]) Compile() error {
	root := m.root()
	root.compileOnce.Do(func() {
		root.frozen.Store(true)
		root.compileErr = root.compile()
	})
	return root.compileErr
}

// compile builds the tree from the accumulated route table, rejecting
// patterns that collide at equal precedence for an overlapping method.
func (m *mux[C]) compile() error {
	tree := &node[C]{}

	// shape -> method -> first pattern claiming that (shape, method)
	claimed := make(map[string]map[methodTyp]string)

	for _, rt := range m.routes {
		shape := patShape(rt.pattern)
		byMethod := claimed[shape]
		if byMethod == nil {
			byMethod = make(map[methodTyp]string)
			claimed[shape] = byMethod
		}
		for name, bit := range methodMap {
			if rt.method&bit == 0 {
				continue
			}
			if prev, ok := byMethod[bit]; ok {
				return fmt.Errorf("%w: %s %q collides with %q", ErrRouteConflict, name, rt.pattern, prev)
			}
			byMethod[bit] = rt.pattern
		}

		tree.insertRoute(rt.method, rt.pattern, chain(m.middlewares, rt.handler))
	}

	m.tree = tree
	return nil
}

// ServeHTTP implements the http.Handler interface. The first request
// compiles the router; a compile error at this point is a programmer
// error and panics rather than being reported to the client.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := m.Compile(); err != nil {
		panic(err)
	}
	root := m.root()

	ww := newResponseWriter(w)

	path := r.URL.Path
	if path == "" {
		path = "/"
	}
	path = normalizePath(path)

	method, ok := methodMap[r.Method]
	if !ok {
		ctx := root.newContext(ww, r, nil)
		root.errorHandler(ctx, ErrMethodNotAllowed)
		return
	}

	_, eps, fn, params := root.tree.findRoute(method, path)

	var paramsMap map[string]string
	if len(params.keys) > 0 {
		paramsMap = make(map[string]string, len(params.keys))
		for i, key := range params.keys {
			if i < len(params.values) {
				paramsMap[key] = params.values[i]
			}
		}
	}

	ctx := root.newContext(ww, r, paramsMap)

	// Recover from panics to keep one request from taking down the process
	// or other in-flight requests.
	defer func() {
		if p := recover(); p != nil {
			panicErr := &panicError{
				value: p,
				stack: debug.Stack(),
			}

			if ww.Written() {
				// Too late for an error response, log and move on.
				root.logger.Error("panic after response written",
					"value", panicErr.value,
					"stack", string(panicErr.stack),
					"path", r.URL.Path,
					"method", r.Method,
					"status", ww.Status(),
				)
			} else {
				root.errorHandler(ctx, panicErr)
			}
		}
	}()

	if fn == nil {
		allowed := allowedMethods(eps)
		if len(allowed) > 0 {
			// Set Allow header per RFC 9110 before responding with 405
			if !ww.Written() {
				ww.Header().Set("Allow", strings.Join(allowed, ", "))
			}
			root.errorHandler(ctx, ErrMethodNotAllowed)
		} else {
			root.errorHandler(ctx, ErrNotFound)
		}
		return
	}

	response := fn(ctx)
	if response == nil {
		root.errorHandler(ctx, ErrNilResponse)
		return
	}

	if err := response(ww, r); err != nil {
		root.errorHandler(ctx, err)
	}
}

// allowedMethods lists the methods registered on a matched leaf, sorted
// for deterministic Allow headers.
func allowedMethods[C handler.Context](eps endpoints[C]) []string {
	var allowed []string
	for mt, e := range eps {
		if e != nil && e.handler != nil {
			allowed = append(allowed, reverseMethodMap[mt])
		}
	}
	sort.Strings(allowed)
	return allowed
}

// Get registers a handler for GET requests.
func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.handle(mGET, pattern, h)
}

// Post registers a handler for POST requests.
func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.handle(mPOST, pattern, h)
}

// Put registers a handler for PUT requests.
func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C]) {
	m.handle(mPUT, pattern, h)
}

// Delete registers a handler for DELETE requests.
func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C]) {
	m.handle(mDELETE, pattern, h)
}

// Patch registers a handler for PATCH requests.
func (m *mux[C]) Patch(pattern string, h handler.HandlerFunc[C]) {
	m.handle(mPATCH, pattern, h)
}

// Head registers a handler for HEAD requests.
func (m *mux[C]) Head(pattern string, h handler.HandlerFunc[C]) {
	m.handle(mHEAD, pattern, h)
}

// Options registers a handler for OPTIONS requests.
func (m *mux[C]) Options(pattern string, h handler.HandlerFunc[C]) {
	m.handle(mOPTIONS, pattern, h)
}

// Connect registers a handler for CONNECT requests.
func (m *mux[C]) Connect(pattern string, h handler.HandlerFunc[C]) {
	m.handle(mCONNECT, pattern, h)
}

// Trace registers a handler for TRACE requests.
func (m *mux[C]) Trace(pattern string, h handler.HandlerFunc[C]) {
	m.handle(mTRACE, pattern, h)
}

// Handle registers a handler for all HTTP methods.
func (m *mux[C]) Handle(pattern string, h handler.HandlerFunc[C]) {
	m.handle(mALL, pattern, h)
}

// Method registers a handler for one or more specific HTTP methods.
func (m *mux[C]) Method(pattern string, h handler.HandlerFunc[C], methods ...string) {
	if len(methods) == 0 {
		panic(fmt.Errorf("%w: no methods provided", ErrInvalidMethod))
	}

	var mt methodTyp
	for _, method := range methods {
		bit, ok := methodMap[strings.ToUpper(method)]
		if !ok {
			panic(fmt.Errorf("%w: %s", ErrInvalidMethod, method))
		}
		mt |= bit
	}
	m.handle(mt, pattern, h)
}

// Use appends middleware to the router. All middleware must be registered
// before any route.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if m.frozen.Load() || m.root().frozen.Load() {
		panic(ErrRouterFrozen)
	}
	if !m.inline && len(m.routes) > 0 {
		panic("router: all middlewares must be defined before routes on a mux")
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

// With creates a new inline router with additional middleware. Routes
// registered through it carry the extra middleware but live in the same
// route table as the parent.
func (m *mux[C]) With(middlewares ...handler.Middleware[C]) Router[C] {
	return &mux[C]{
		inline:       true,
		parent:       m,
		middlewares:  middlewares,
		errorHandler: m.errorHandler,
		newContext:   m.newContext,
		logger:       m.logger,
	}
}

// Group creates a new inline router for grouping routes.
func (m *mux[C]) Group(fn func(r Router[C])) Router[C] {
	im := m.With()
	if fn != nil {
		fn(im)
	}
	return im
}

// Route creates a new sub-router, configures it with fn, and mounts it
// at the given pattern.
func (m *mux[C]) Route(pattern string, fn func(r Router[C])) Router[C] {
	if fn == nil {
		panic(fmt.Errorf("%w on '%s'", ErrNilSubrouter, pattern))
	}
	sub := newMux[C]()
	sub.errorHandler = m.errorHandler
	sub.newContext = m.newContext
	sub.logger = m.logger

	fn(sub)
	m.Mount(pattern, sub)
	return sub
}

// Mount absorbs a sub-router at the given prefix. Mounting performs
// prefix concatenation and middleware accumulation only: each of the
// sub-router's routes is re-registered under prefix+pattern with the
// sub-router's own middleware chained inside the mounting scope's.
// The sub-router is frozen by mounting; collisions with existing routes
// surface as ErrRouteConflict at compile time.
func (m *mux[C]) Mount(pattern string, sub Router[C]) {
	if sub == nil {
		panic(fmt.Errorf("%w on '%s'", ErrNilRouter, pattern))
	}

	subMux, ok := sub.(*mux[C])
	if !ok {
		panic("router: can only mount routers created by New")
	}
	if subMux.inline {
		panic("router: cannot mount an inline router group")
	}
	if len(pattern) == 0 || pattern[0] != '/' {
		panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, pattern))
	}

	// No registration after mounting: the parent holds a snapshot.
	subMux.frozen.Store(true)

	prefix := normalizePath(pattern)
	for _, rt := range subMux.routes {
		m.handle(rt.method, joinPattern(prefix, rt.pattern), chain(subMux.middlewares, rt.handler))
	}
}

// Routes returns all registered routes, one entry per method.
func (m *mux[C]) Routes() []Route {
	root := m.root()
	var rts []Route
	for _, rt := range root.routes {
		for _, name := range methodNames(rt.method) {
			rts = append(rts, Route{Method: name, Pattern: rt.pattern})
		}
	}
	return rts
}

// methodNames expands a method bitmask into sorted method strings.
func methodNames(mt methodTyp) []string {
	var names []string
	for name, bit := range methodMap {
		if mt&bit != 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// handle validates a pattern and appends it to the root's route table.
func (m *mux[C]) handle(method methodTyp, pattern string, fn handler.HandlerFunc[C]) {
	if len(pattern) == 0 || pattern[0] != '/' {
		panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, pattern))
	}

	root := m.root()
	if root.frozen.Load() {
		panic(fmt.Errorf("%w: cannot register '%s'", ErrRouterFrozen, pattern))
	}

	pattern = normalizePath(pattern)

	// Surface malformed patterns and duplicate params at registration.
	patParamKeys(pattern)

	// For inline groups, chain middleware collected along the parent path.
	h := fn
	if m.inline {
		var inlineMW []handler.Middleware[C]
		curr := m
		for curr != nil && curr.inline {
			if len(curr.middlewares) > 0 {
				inlineMW = append(append([]handler.Middleware[C]{}, curr.middlewares...), inlineMW...)
			}
			curr = curr.parent
		}
		h = chain(inlineMW, fn)
	}

	root.routes = append(root.routes, route[C]{method: method, pattern: pattern, handler: h})
}

// normalizePath applies the single trailing-slash policy: '/x' and '/x/'
// are the same route. Applied to registered patterns and request paths.
func normalizePath(p string) string {
	for len(p) > 1 && p[len(p)-1] == '/' {
		p = p[:len(p)-1]
	}
	if p == "" {
		return "/"
	}
	return p
}

// joinPattern concatenates a mount prefix with a sub-router pattern.
func joinPattern(prefix, pattern string) string {
	if prefix == "/" {
		return pattern
	}
	if pattern == "/" {
		return prefix
	}
	return prefix + pattern
}
