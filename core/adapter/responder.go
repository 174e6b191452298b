package adapter

import (
	"net/http"

	"github.com/zen-rs/skyzen/core/handler"
	"github.com/zen-rs/skyzen/core/response"
)

// Responder converts an owned value into a deferred Response. A Responder
// is total: it cannot fail. Fallible results are expressed as (R, error)
// on the handler function, where the error arm is rendered by the error
// handler, keeping the responder conversion itself infallible.
type Responder[T any] func(v T) handler.Response

// JSON responds with the value encoded as application/json, status 200.
func JSON[T any]() Responder[T] {
	return func(v T) handler.Response {
		return response.JSON(v)
	}
}

// JSONStatus responds with the value encoded as application/json and a
// fixed status code.
func JSONStatus[T any](status int) Responder[T] {
	return func(v T) handler.Response {
		return response.JSONWithStatus(v, status)
	}
}

// Text responds with the string as text/plain, status 200.
func Text() Responder[string] {
	return response.String
}

// Created responds with the value as application/json, status 201.
func Created[T any]() Responder[T] {
	return JSONStatus[T](http.StatusCreated)
}

// NoContent discards the value and responds with status 204.
func NoContent[T any]() Responder[T] {
	return func(T) handler.Response {
		return response.NoContent()
	}
}
