package http

import (
	"context"
	"io"
	"net/http"
)

// Dialer produces the connection a socket transport runs a request over.
// Dial must respect ctx for the whole connection establishment, including
// any TLS handshake, and must not return a half-secured connection.
type Dialer interface {
	Dial(ctx context.Context, r *PreparedRequest) (io.ReadWriteCloser, error)
	Unwrap() Dialer
}

// Request is the user-facing request description. Method defaults to GET
// when empty. URL must be absolute; a missing scheme is taken as https.
// Body accepts the forms documented in [PreparedRequest.GetBody].
type Request struct {
	Method string
	URL    string
	Body   interface{}
	Header http.Header
}

// Response carries the decoded header section of a response together with a
// streaming body. Header values are as received, with per-message framing
// fields already validated. ContentLength is -1 when the length is unknown
// before the body is consumed.
//
// Body is never nil. Callers must Close it whether or not they drain it;
// Close releases the underlying connection or fetch stream.
type Response struct {
	Proto      string
	Status     string
	StatusCode int
	Header     http.Header

	ContentLength int64
	Body          io.ReadCloser
}
