// Package handler defines the uniform endpoint contract shared by the
// router, the extractor/adapter layer, and all middleware.
//
// A handler receives a Context and returns a Response. The Response is a
// deferred rendering function, which lets middleware post-process headers
// and status codes before anything is written to the wire:
//
//	func hello(ctx *router.Context) handler.Response {
//		return response.String("Hello")
//	}
//
// Middleware wraps one HandlerFunc into another. Because the Response is
// itself a function, a middleware can act both before the inner handler
// runs and after it produced its response:
//
//	func withServerHeader[C handler.Context](next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
//		return func(ctx C) handler.Response {
//			resp := next(ctx)
//			return func(w http.ResponseWriter, r *http.Request) error {
//				w.Header().Set("Server", "skyzen")
//				return resp(w, r)
//			}
//		}
//	}
package handler
