package invoke

import (
	"bytes"
	"net/http"
)

// recorder is an in-memory http.ResponseWriter. Unlike httptest's recorder it
// is not a test helper: it is the production writer for single-call dispatch.
type recorder struct {
	header http.Header
	body   bytes.Buffer
	status int
	wrote  bool
}

func newRecorder() *recorder {
	return &recorder{header: make(http.Header)}
}

func (r *recorder) Header() http.Header {
	return r.header
}

func (r *recorder) WriteHeader(status int) {
	if r.wrote {
		return
	}
	r.wrote = true
	r.status = status
}

func (r *recorder) Write(p []byte) (int, error) {
	if !r.wrote {
		r.WriteHeader(http.StatusOK)
	}
	return r.body.Write(p)
}

// result snapshots the recorded response. A handler that never wrote a
// header yields 200, matching net/http semantics.
func (r *recorder) result() Response {
	status := r.status
	if !r.wrote {
		status = http.StatusOK
	}
	return Response{
		StatusCode: status,
		Headers:    r.header,
		Body:       r.body.Bytes(),
	}
}
