// Package extract provides typed request extractors: composable functions
// that pull a strongly-typed value out of the request carried by a
// handler.Context.
//
// Extractors come in two families. Read-only extractors (Param, Params,
// Header, Query, ClientAddr) inspect the request without consuming any
// shared state and may appear anywhere in a composite. Body-consuming
// extractors (Body, JSON, Form) take ownership of the request body,
// which is a single-consumption resource: the first consumer wins, and a
// second consumer in the same request deterministically fails with
// handler.ErrBodyConsumed instead of silently reading an empty stream.
//
// Extraction failures are *extract.Error values wrapping a typed sentinel
// and carrying the HTTP status the failure maps to (400 for malformed
// input, 415 for a wrong content type, 413 for oversized bodies), so the
// response layer renders them without extra translation:
//
//	type CreateItem struct {
//		Name  string `json:"name"`
//		Price int    `json:"price"`
//	}
//
//	r.Post("/items", adapter.Handle1(extract.JSON[CreateItem](),
//		func(ctx *router.Context, in CreateItem) handler.Response {
//			return response.JSONWithStatus(in, http.StatusCreated)
//		}))
package extract
