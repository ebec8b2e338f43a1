package internal

import (
	"context"

	"github.com/oscartbeaumont/async-web-client/internal/dialer"
	"github.com/oscartbeaumont/async-web-client/internal/http"
	"github.com/oscartbeaumont/async-web-client/internal/transport"
)

type PreparedRequest = http.PreparedRequest

type Handler = func(ctx context.Context, req *PreparedRequest) (*http.Response, error)
type Middleware func(next Handler) Handler

// Client issues requests through a transport, decorating each exchange
// with the registered middleware chain. The zero value is ready to use and
// picks the platform default transport.
//
// A Client must not be mutated while requests are in flight; configure it
// first, then share it freely.
type Client struct {
	middlewares []Middleware
	dialer      http.Dialer
	transport   transport.Transport
}

// Use appends mws to the chain. The first middleware added sits outermost
// and sees the request first.
func (c *Client) Use(mws ...Middleware) {
	c.middlewares = append(c.middlewares, mws...)
}

// UseDialer swaps the connection layer by wrapping the current dialer. It
// only affects transports that dial, which the host-fetch one does not.
func (c *Client) UseDialer(wrap func(http.Dialer) http.Dialer) {
	c.dialer = wrap(c.currentDialer())
}

// UseTransport overrides the exchange engine, mainly so a client can be
// pointed at a specific host capability or a test double.
func (c *Client) UseTransport(t transport.Transport) {
	c.transport = t
}

var defaultDialer = &dialer.CoreDialer{}

func (c *Client) currentDialer() http.Dialer {
	if c.dialer != nil {
		return c.dialer
	}
	return defaultDialer
}

func (c *Client) roundTripper() transport.Transport {
	if c.transport != nil {
		return c.transport
	}
	return NewDefaultTransport(c.currentDialer())
}

// CtxDo prepares req, runs it through the middleware chain and performs
// the exchange. Everything that can fail before the response header phase
// completes is reported here; failures after that surface through the
// response body stream.
func (c *Client) CtxDo(ctx context.Context, req *http.Request) (*http.Response, error) {
	pr, err := req.Prepare()
	if err != nil {
		return nil, err
	}
	next := c.roundTripper().RoundTrip
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		next = c.middlewares[i](next)
	}
	return next(ctx, pr)
}
