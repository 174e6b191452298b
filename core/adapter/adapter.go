package adapter

import (
	"fmt"

	"github.com/zen-rs/skyzen/core/extract"
	"github.com/zen-rs/skyzen/core/handler"
	"github.com/zen-rs/skyzen/core/response"
)

// Handle adapts a plain handler, adding the adapter's panic containment.
func Handle[C handler.Context](fn func(ctx C) handler.Response) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		return invoke(func() handler.Response {
			return fn(ctx)
		})
	}
}

// Handle1 binds one extractor to a handler function. The extractor is
// resolved before the handler body runs; on failure the body is never
// invoked and the extraction error is rendered instead.
func Handle1[C handler.Context, T1 any](e1 extract.Extractor[T1], fn func(ctx C, v1 T1) handler.Response) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		v1, err := e1(ctx)
		if err != nil {
			return response.Error(err)
		}
		return invoke(func() handler.Response {
			return fn(ctx, v1)
		})
	}
}

// Handle2 binds two extractors to a handler function. Extractors resolve
// in declared order; the first failure aborts the composite, so a failing
// first extractor means the second never runs.
func Handle2[C handler.Context, T1, T2 any](e1 extract.Extractor[T1], e2 extract.Extractor[T2], fn func(ctx C, v1 T1, v2 T2) handler.Response) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		v1, err := e1(ctx)
		if err != nil {
			return response.Error(err)
		}
		v2, err := e2(ctx)
		if err != nil {
			return response.Error(err)
		}
		return invoke(func() handler.Response {
			return fn(ctx, v1, v2)
		})
	}
}

// Handle3 binds three extractors to a handler function.
func Handle3[C handler.Context, T1, T2, T3 any](e1 extract.Extractor[T1], e2 extract.Extractor[T2], e3 extract.Extractor[T3], fn func(ctx C, v1 T1, v2 T2, v3 T3) handler.Response) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		v1, err := e1(ctx)
		if err != nil {
			return response.Error(err)
		}
		v2, err := e2(ctx)
		if err != nil {
			return response.Error(err)
		}
		v3, err := e3(ctx)
		if err != nil {
			return response.Error(err)
		}
		return invoke(func() handler.Response {
			return fn(ctx, v1, v2, v3)
		})
	}
}

// Typed adapts a fallible function without extractors: the success arm is
// converted by the responder, the error arm is rendered by the router's
// error handler.
func Typed[C handler.Context, R any](fn func(ctx C) (R, error), respond Responder[R]) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		return invoke(func() handler.Response {
			out, err := fn(ctx)
			if err != nil {
				return response.Error(err)
			}
			return respond(out)
		})
	}
}

// Typed1 binds one extractor to a fallible function with a typed result.
func Typed1[C handler.Context, T1, R any](e1 extract.Extractor[T1], fn func(ctx C, v1 T1) (R, error), respond Responder[R]) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		v1, err := e1(ctx)
		if err != nil {
			return response.Error(err)
		}
		return invoke(func() handler.Response {
			out, err := fn(ctx, v1)
			if err != nil {
				return response.Error(err)
			}
			return respond(out)
		})
	}
}

// Typed2 binds two extractors to a fallible function with a typed result.
func Typed2[C handler.Context, T1, T2, R any](e1 extract.Extractor[T1], e2 extract.Extractor[T2], fn func(ctx C, v1 T1, v2 T2) (R, error), respond Responder[R]) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		v1, err := e1(ctx)
		if err != nil {
			return response.Error(err)
		}
		v2, err := e2(ctx)
		if err != nil {
			return response.Error(err)
		}
		return invoke(func() handler.Response {
			out, err := fn(ctx, v1, v2)
			if err != nil {
				return response.Error(err)
			}
			return respond(out)
		})
	}
}

// Typed3 binds three extractors to a fallible function with a typed result.
func Typed3[C handler.Context, T1, T2, T3, R any](e1 extract.Extractor[T1], e2 extract.Extractor[T2], e3 extract.Extractor[T3], fn func(ctx C, v1 T1, v2 T2, v3 T3) (R, error), respond Responder[R]) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		v1, err := e1(ctx)
		if err != nil {
			return response.Error(err)
		}
		v2, err := e2(ctx)
		if err != nil {
			return response.Error(err)
		}
		v3, err := e3(ctx)
		if err != nil {
			return response.Error(err)
		}
		return invoke(func() handler.Response {
			out, err := fn(ctx, v1, v2, v3)
			if err != nil {
				return response.Error(err)
			}
			return respond(out)
		})
	}
}

// invoke runs the handler body, converting a panic into a generic
// server-error response at the adapter boundary so it can never escape
// into the dispatcher or take other requests down with it.
func invoke(fn func() handler.Response) (resp handler.Response) {
	defer func() {
		if p := recover(); p != nil {
			resp = response.Error(response.ErrInternalServerError.WithError(fmt.Errorf("handler panic: %v", p)))
		}
	}()
	return fn()
}
