package logger

import (
	"log/slog"
	"time"
)

// Group creates a named attribute group.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return slog.Group(name, args...)
}

// Error records an error under the conventional "error" key.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

// Duration records a duration under the "duration" key.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Elapsed records the time elapsed since start.
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// RequestID records the request correlation identifier.
func RequestID(id string) slog.Attr {
	return slog.String("request_id", id)
}

// Method records the HTTP request method.
func Method(method string) slog.Attr {
	return slog.String("method", method)
}

// Path records the HTTP request path.
func Path(path string) slog.Attr {
	return slog.String("path", path)
}

// Query records the raw query string.
func Query(q string) slog.Attr {
	return slog.String("query", q)
}

// StatusCode records the HTTP response status.
func StatusCode(code int) slog.Attr {
	return slog.Int("status", code)
}

// RemoteAddr records the client network address.
func RemoteAddr(addr string) slog.Attr {
	return slog.String("remote_addr", addr)
}

// BytesOut records the number of response bytes written.
func BytesOut(n int64) slog.Attr {
	return slog.Int64("bytes_out", n)
}

// Component records the emitting component name.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records a short event name within a component.
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Count records an integer under a caller-chosen key.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}
