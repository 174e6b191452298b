package extract

import (
	"fmt"
	"net"

	"github.com/zen-rs/skyzen/core/handler"
)

// Extractor obtains a typed value from the request carried by the context.
// Extractors are resolved in declared order by the adapter; the first
// failure aborts the remaining extractors. Extractors other than the body
// family read without consuming shared state and can run in any order.
type Extractor[T any] func(ctx handler.Context) (T, error)

// Param extracts a named route parameter captured by the matched pattern.
// It fails when the parameter is not present on the route.
func Param(name string) Extractor[string] {
	return func(ctx handler.Context) (string, error) {
		v := ctx.Param(name)
		if v == "" {
			return "", badRequest(fmt.Errorf("%w: %q", ErrMissingParam, name))
		}
		return v, nil
	}
}

// Header extracts a required request header.
func Header(name string) Extractor[string] {
	return func(ctx handler.Context) (string, error) {
		v := ctx.Request().Header.Get(name)
		if v == "" {
			return "", badRequest(fmt.Errorf("%w: %q", ErrMissingHeader, name))
		}
		return v, nil
	}
}

// ClientAddr extracts the remote client IP without the port.
// Proxy-aware resolution belongs in middleware; this reads the socket peer.
func ClientAddr() Extractor[string] {
	return func(ctx handler.Context) (string, error) {
		addr := ctx.Request().RemoteAddr
		if host, _, err := net.SplitHostPort(addr); err == nil {
			return host, nil
		}
		return addr, nil
	}
}

// Query binds the request query string to a struct of type T using
// `query` struct tags:
//
//	type Search struct {
//		Term string   `query:"q"`
//		Page int      `query:"page"`
//		Tags []string `query:"tags"` // ?tags=go&tags=web or ?tags=go,web
//	}
//
// Untagged fields bind by their lowercase name; `query:"-"` skips a field.
func Query[T any]() Extractor[T] {
	return func(ctx handler.Context) (T, error) {
		var v T
		if err := bindToStruct(&v, "query", ctx.Request().URL.Query(), ErrFailedToParseQuery); err != nil {
			return v, badRequest(err)
		}
		return v, nil
	}
}

// Params binds all captured route parameters to a struct of type T using
// `path` struct tags. Missing parameters leave the field at its zero value.
func Params[T any]() Extractor[T] {
	return func(ctx handler.Context) (T, error) {
		var v T
		values := func(name string) []string {
			if p := ctx.Param(name); p != "" {
				return []string{p}
			}
			return nil
		}
		if err := bindFunc(&v, "path", values, ErrMissingParam); err != nil {
			return v, badRequest(err)
		}
		return v, nil
	}
}
