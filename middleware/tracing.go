package middleware

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zen-rs/skyzen/core/handler"
)

const defaultTracerName = "skyzen"

// TracingConfig configures the OpenTelemetry tracing middleware.
type TracingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool

	// TracerName is the name of the tracer (default: "skyzen").
	TracerName string

	// AttributeExtractor extracts custom attributes from the context.
	// Called once per traced request.
	AttributeExtractor func(ctx handler.Context) []attribute.KeyValue
}

// Tracing creates an OpenTelemetry tracing middleware with default
// configuration. The tracer comes from the global tracer provider, so
// configure otel.SetTracerProvider in main before starting the server.
func Tracing[C handler.Context]() handler.Middleware[C] {
	return TracingWithConfig[C](TracingConfig{})
}

// TracingWithConfig creates an OpenTelemetry tracing middleware. A server
// span covers the handler and the response write; errors from either are
// recorded on the span.
func TracingWithConfig[C handler.Context](cfg TracingConfig) handler.Middleware[C] {
	if cfg.TracerName == "" {
		cfg.TracerName = defaultTracerName
	}

	tracer := otel.Tracer(cfg.TracerName)

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()

			attrs := []attribute.KeyValue{
				attribute.String("http.request.method", req.Method),
				attribute.String("url.path", req.URL.Path),
			}
			if cfg.AttributeExtractor != nil {
				attrs = append(attrs, cfg.AttributeExtractor(ctx)...)
			}

			spanCtx, span := tracer.Start(
				req.Context(),
				fmt.Sprintf("%s %s", req.Method, req.URL.Path),
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(attrs...),
			)

			// Propagate the span context to the handler and extractors.
			ctx.SetValue(spanContextKey{}, spanCtx)

			resp := next(ctx)
			if resp == nil {
				span.End()
				return nil
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				defer span.End()

				wrapped := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
				err := resp(wrapped, r)

				span.SetAttributes(attribute.Int("http.response.status_code", wrapped.statusCode))
				if err != nil {
					span.RecordError(err)
					span.SetStatus(codes.Error, err.Error())
				} else if wrapped.statusCode >= http.StatusInternalServerError {
					span.SetStatus(codes.Error, http.StatusText(wrapped.statusCode))
				} else {
					span.SetStatus(codes.Ok, "")
				}
				return err
			}
		}
	}
}

// spanContextKey keys the span-bearing context in the value store.
type spanContextKey struct{}

// SpanFromContext returns the current trace span, or a no-op span when the
// tracing middleware is not installed.
func SpanFromContext(ctx handler.Context) trace.Span {
	return trace.SpanFromContext(TraceContext(ctx))
}

// TraceContext returns the span-bearing context for propagation to
// downstream calls, falling back to the request context.
func TraceContext(ctx handler.Context) context.Context {
	if c, ok := ctx.Value(spanContextKey{}).(context.Context); ok {
		return c
	}
	return ctx.Request().Context()
}
