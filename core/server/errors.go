package server

import "errors"

var (
	// ErrServerAlreadyRunning is returned by Start when the server is live.
	ErrServerAlreadyRunning = errors.New("server is already running")

	// ErrMissingAddress is returned when no listen address is provided.
	ErrMissingAddress = errors.New("server address is required")

	// ErrShutdownTimeout is returned by Stop when in-flight requests did not
	// drain within the configured shutdown window and connections were
	// force-closed.
	ErrShutdownTimeout = errors.New("shutdown drain window exceeded, connections force-closed")
)
