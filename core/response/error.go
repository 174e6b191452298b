package response

import (
	"net/http"

	"github.com/zen-rs/skyzen/core/handler"
)

// Error returns a response that propagates the given error without writing
// anything. The router's error handler decides how the error is rendered,
// so handlers can fail uniformly regardless of the configured output format.
func Error(err error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return err
	}
}
