// Package fetch defines the capability surface a host environment provides
// on platforms where the process cannot open sockets itself, such as
// browser and WASI style runtimes. The host owns connections, TLS and
// message framing; it hands back nothing but a status/header bundle and an
// opaque chunk source.
package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
)

// Request is the call shape handed to the host.
type Request struct {
	Method string
	URL    string
	Header http.Header

	// Body is the outbound payload, nil when there is none. Hosts that
	// cannot stream uploads may drain it fully before issuing the call;
	// that buffering is an accepted platform limitation, not an error.
	Body io.Reader
	// ContentLength is the body length when known ahead of time, -1
	// otherwise.
	ContentLength int64
}

// Response is the host's response-started signal: the moment it exists,
// the header phase is complete. The payload follows through Body.
type Response struct {
	// Status is the full status string, e.g. "200 OK". Hosts may leave it
	// empty and fill only StatusCode.
	Status     string
	StatusCode int
	Header     http.Header

	// Body produces the payload incrementally. nil means the host already
	// knows there is no payload.
	Body Source
}

// Source is the host's incremental chunk producer.
type Source interface {
	// Next blocks until the next chunk is available and returns it. It
	// returns (nil, io.EOF) at the clean end of the stream. The returned
	// slice belongs to the caller until the following call.
	Next(ctx context.Context) ([]byte, error)
	// Cancel releases the underlying stream early. It is idempotent and
	// must unblock a concurrent Next.
	Cancel() error
}

// Capability is implemented by the host environment.
type Capability interface {
	Fetch(ctx context.Context, req *Request) (*Response, error)
}

// ErrConnect marks failures to reach the origin at all, as opposed to
// failures after the exchange started. Hosts wrap connect-phase errors
// with it so they classify the same way socket dial failures do.
var ErrConnect = errors.New("fetch: connect failed")

var current Capability

// SetDefault registers the process-wide host capability. Platform glue
// calls it once at startup, before any request is issued.
func SetDefault(c Capability) { current = c }

// Default returns the registered host capability, nil when none is set.
func Default() Capability { return current }
