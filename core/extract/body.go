package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/zen-rs/skyzen/core/handler"
)

// DefaultMaxBodySize is the maximum body size accepted by the body-consuming
// extractors (1MB). Larger payloads fail with ErrBodyTooLarge.
const DefaultMaxBodySize = 1 << 20

// readBody consumes the request body through the context, converting a
// second consumption attempt into a client-visible extraction error
// rather than silently observing an empty stream.
func readBody(ctx handler.Context) ([]byte, error) {
	body, err := ctx.ReadBody()
	if err != nil {
		if errors.Is(err, handler.ErrBodyConsumed) {
			return nil, badRequest(err)
		}
		return nil, badRequest(fmt.Errorf("%w: %v", ErrMalformedBody, err))
	}
	if len(body) > DefaultMaxBodySize {
		return nil, contentTooLarge(fmt.Errorf("%w: max %d bytes", ErrBodyTooLarge, DefaultMaxBodySize))
	}
	return body, nil
}

// mediaType strips parameters such as charset from a Content-Type value.
func mediaType(contentType string) string {
	if idx := strings.Index(contentType, ";"); idx != -1 {
		return strings.TrimSpace(contentType[:idx])
	}
	return contentType
}

// Body extracts the raw request body. This is a body-consuming extractor:
// it takes ownership of the body resource, and any later body extractor in
// the same composite fails with handler.ErrBodyConsumed.
func Body() Extractor[[]byte] {
	return readBody
}

// JSON decodes the request body into a value of type T. The request must
// carry an application/json content type; decoding is strict (unknown
// fields and trailing data are rejected). Body-consuming.
func JSON[T any]() Extractor[T] {
	return func(ctx handler.Context) (T, error) {
		var v T

		contentType := ctx.Request().Header.Get("Content-Type")
		if contentType == "" {
			return v, unsupportedMedia(fmt.Errorf("%w: expected application/json", ErrMissingContentType))
		}
		if mt := mediaType(contentType); mt != "application/json" {
			return v, unsupportedMedia(fmt.Errorf("%w: got %s, expected application/json", ErrUnsupportedMediaType, mt))
		}

		body, err := readBody(ctx)
		if err != nil {
			return v, err
		}
		if len(body) == 0 {
			return v, badRequest(fmt.Errorf("%w: empty body", ErrMalformedBody))
		}

		decoder := json.NewDecoder(strings.NewReader(string(body)))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&v); err != nil {
			return v, badRequest(fmt.Errorf("%w: %v", ErrMalformedBody, err))
		}

		// Reject trailing data after the JSON document.
		var extra json.RawMessage
		if err := decoder.Decode(&extra); err != io.EOF {
			return v, badRequest(fmt.Errorf("%w: unexpected data after JSON document", ErrMalformedBody))
		}

		return v, nil
	}
}

// Form decodes an application/x-www-form-urlencoded body into a struct of
// type T using `form` struct tags. Body-consuming.
func Form[T any]() Extractor[T] {
	return func(ctx handler.Context) (T, error) {
		var v T

		contentType := ctx.Request().Header.Get("Content-Type")
		if contentType == "" {
			return v, unsupportedMedia(fmt.Errorf("%w: expected application/x-www-form-urlencoded", ErrMissingContentType))
		}
		if mt := mediaType(contentType); mt != "application/x-www-form-urlencoded" {
			return v, unsupportedMedia(fmt.Errorf("%w: got %s, expected application/x-www-form-urlencoded", ErrUnsupportedMediaType, mt))
		}

		body, err := readBody(ctx)
		if err != nil {
			return v, err
		}

		values, err := url.ParseQuery(string(body))
		if err != nil {
			return v, badRequest(fmt.Errorf("%w: %v", ErrFailedToParseForm, err))
		}

		if err := bindToStruct(&v, "form", values, ErrFailedToParseForm); err != nil {
			return v, badRequest(err)
		}
		return v, nil
	}
}
