// Package invoke runs an http.Handler one request at a time, for platforms
// that deliver calls individually instead of over a listening socket.
//
// A Function wraps a handler factory. The factory runs once, on the first
// invocation, so the router tree is built lazily and then reused warm:
//
//	fn := invoke.New(func() (http.Handler, error) {
//		r := router.New[*router.Context]()
//		r.Get("/users/{id}", getUser)
//		return r, r.Compile()
//	})
//
//	resp, err := fn.Invoke(ctx, invoke.Request{
//		Method: http.MethodGet,
//		Path:   "/users/42",
//	})
//
// Every invocation gets its own request and response buffer, so handlers
// cannot observe state from previous calls through the transport.
package invoke
