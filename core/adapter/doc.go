// Package adapter binds ordinary typed functions to the uniform endpoint
// contract. Each parameter position is bound to a concrete extractor and
// the return type to a concrete responder when the handler is adapted,
// before any request arrives, so dispatch involves no runtime type
// lookup.
//
//	r.Get("/users/{id}", adapter.Typed1(
//		extract.Param("id"),
//		func(ctx *router.Context, id string) (User, error) {
//			return store.Find(ctx, id)
//		},
//		adapter.JSON[User](),
//	))
//
// At invocation time extractors resolve in declared order and the first
// failure aborts the composite: later extractors never run and the
// handler body is never invoked. A panic inside the handler body is
// contained at this boundary and rendered as a generic 500 response.
package adapter
