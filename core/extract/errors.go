package extract

import (
	"errors"
	"net/http"
)

// Sentinel errors describing why an extraction failed.
var (
	// ErrMissingParam indicates the matched route did not capture the
	// requested path parameter.
	ErrMissingParam = errors.New("missing path parameter")

	// ErrMissingHeader indicates a required request header is absent.
	ErrMissingHeader = errors.New("missing request header")

	// ErrMissingContentType indicates the request lacks a Content-Type
	// header when one is required for parsing.
	ErrMissingContentType = errors.New("missing content type")

	// ErrUnsupportedMediaType indicates the Content-Type header specifies
	// a media type the extractor doesn't support.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrMalformedBody indicates the request body could not be parsed.
	ErrMalformedBody = errors.New("malformed request body")

	// ErrBodyTooLarge indicates the request body exceeds the extractor's
	// size limit.
	ErrBodyTooLarge = errors.New("request body too large")

	// ErrFailedToParseQuery indicates query parameter binding failed,
	// typically due to a type conversion error.
	ErrFailedToParseQuery = errors.New("failed to parse query parameters")

	// ErrFailedToParseForm indicates form data binding failed.
	ErrFailedToParseForm = errors.New("failed to parse form data")
)

// Error is an extraction failure carrying the HTTP status it maps to.
// It wraps one of the sentinel errors above, so callers can branch with
// errors.Is while the response layer picks up the status through the
// StatusCode convention.
type Error struct {
	Status int
	Err    error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status for the failure.
func (e *Error) StatusCode() int { return e.Status }

func badRequest(err error) *Error {
	return &Error{Status: http.StatusBadRequest, Err: err}
}

func unsupportedMedia(err error) *Error {
	return &Error{Status: http.StatusUnsupportedMediaType, Err: err}
}

func contentTooLarge(err error) *Error {
	return &Error{Status: http.StatusRequestEntityTooLarge, Err: err}
}
