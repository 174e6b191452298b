package response

import (
	"encoding/json"
	"net/http"

	"github.com/zen-rs/skyzen/core/handler"
)

// JSON creates an application/json response with 200 OK status.
// Encoding streams directly to the response writer.
func JSON(v any) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		return json.NewEncoder(w).Encode(v)
	}
}

// JSONWithStatus creates an application/json response with custom status code.
// A zero status resolves to 204 for nil data and 200 otherwise. Statuses that
// forbid a body per the HTTP spec (204, 304) skip encoding entirely.
func JSONWithStatus(v any, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if status == 0 {
			if v == nil {
				status = http.StatusNoContent
			} else {
				status = http.StatusOK
			}
		}

		w.WriteHeader(status)

		switch status {
		case http.StatusNoContent, http.StatusNotModified:
			return nil
		}

		return json.NewEncoder(w).Encode(v)
	}
}
