// Package webclient is an http client built around streaming response
// bodies. A [Response.Body] is a lazy stream over the peer connection,
// so consuming it slowly applies backpressure instead of buffering the
// payload, and closing it early tears the exchange down.
//
// Requests travel over one of two transports. The socket transport
// opens a TCP connection, optionally wrapped in TLS, and speaks
// HTTP/1.1 on it directly. On platforms where the process cannot open
// sockets, a host provided fetch capability carries the exchange
// instead, behind the same Client API. [NewDefaultTransport] picks
// whichever fits the build target.
package webclient

import (
	"context"

	"github.com/oscartbeaumont/async-web-client/internal"
	"github.com/oscartbeaumont/async-web-client/internal/http"
)

type Client = internal.Client
type Middleware = internal.Middleware
type Handler = internal.Handler

// DefaultClient is the Client used by [Get], [Head] and [Post]. It has
// no middlewares and dials with a zero value CoreDialer.
var DefaultClient = &Client{}

// NewDefaultTransport returns the transport a zero value [Client] uses,
// bound to the given dialer. On ordinary builds that is the socket
// transport; under js it is the host fetch transport, which ignores the
// dialer entirely.
var NewDefaultTransport = internal.NewDefaultTransport

// Get issues a GET through [DefaultClient]. The caller owns resp.Body
// and must close it.
func Get(ctx context.Context, url string) (*Response, error) {
	return DefaultClient.CtxDo(ctx, &Request{Method: "GET", URL: url})
}

// Head issues a HEAD through [DefaultClient]. The response carries
// headers only, resp.Body reports end of stream immediately.
func Head(ctx context.Context, url string) (*Response, error) {
	return DefaultClient.CtxDo(ctx, &Request{Method: "HEAD", URL: url})
}

// Post issues a POST through [DefaultClient]. The body may be any of
// the forms [Request.Body] accepts. Pass [NoBody] for an empty POST.
func Post(ctx context.Context, url, contentType string, body interface{}) (*Response, error) {
	req := &Request{Method: "POST", URL: url, Body: body, Header: http.Header{}}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return DefaultClient.CtxDo(ctx, req)
}
