package response

import (
	"errors"
	"net/http"

	"github.com/zen-rs/skyzen/core/handler"
)

// statusCode is implemented by errors that carry a custom HTTP status.
type statusCode interface {
	StatusCode() int
}

// convertToHTTPError promotes any error to an HTTPError. An HTTPError in the
// chain wins as-is; otherwise the status comes from the statusCode interface
// when present, defaulting to 500, and the original error is kept as cause.
func convertToHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	baseErr, ok := httpErrorsByStatus[status]
	if !ok {
		baseErr = ErrInternalServerError
	}

	return baseErr.WithError(err)
}

// ErrorHandler renders errors as plain text.
func ErrorHandler[C handler.Context](ctx C, err error) {
	httpErr := convertToHTTPError(err)
	Render(ctx, StringWithStatus(httpErr.Error(), httpErr.Status))
}

// JSONErrorHandler renders errors as structured JSON bodies.
func JSONErrorHandler[C handler.Context](ctx C, err error) {
	httpErr := convertToHTTPError(err)
	Render(ctx, JSONWithStatus(httpErr, httpErr.Status))
}
