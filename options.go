package webclient

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/oscartbeaumont/async-web-client/internal/transport"
	"github.com/oscartbeaumont/async-web-client/throttle"
)

// Transport performs one whole exchange for a prepared request. The two
// built-in implementations are the socket transport and the host fetch
// transport; tests drop in their own.
type Transport = transport.Transport

// Option is a functional option for configuring a [Client] via [New].
type Option func(*Client) error

// New builds a configured Client. A bare New() is equivalent to a zero
// value Client.
func New(opts ...Option) (*Client, error) {
	c := &Client{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// WithDialer replaces the connection layer used by the socket transport.
func WithDialer(d Dialer) Option {
	return func(c *Client) error {
		if d == nil {
			return errors.New("dialer must not be nil")
		}
		c.UseDialer(func(Dialer) Dialer { return d })
		return nil
	}
}

// WithTrustRoots pins the certificate authorities used to verify server
// certificates on https dials.
func WithTrustRoots(roots *TrustRoots) Option {
	return func(c *Client) error {
		if roots == nil {
			return errors.New("trust roots must not be nil")
		}
		c.UseDialer(func(d Dialer) Dialer {
			if cd, ok := d.(*CoreDialer); ok {
				cd = cd.Clone()
				cd.Roots = roots
				return cd
			}
			return &CoreDialer{Roots: roots}
		})
		return nil
	}
}

// WithTransport sets a custom exchange engine, bypassing the platform
// default.
func WithTransport(t Transport) Option {
	return func(c *Client) error {
		if t == nil {
			return errors.New("transport must not be nil")
		}
		c.UseTransport(t)
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to outgoing requests
// that do not already carry one.
func WithUserAgent(header string) Option {
	return func(c *Client) error {
		if header == "" {
			return errors.New("user agent must not be empty")
		}
		c.Use(func(next Handler) Handler {
			return func(ctx context.Context, req *PreparedRequest) (*Response, error) {
				if req.Header.Get("User-Agent") == "" {
					req.Header.Set("User-Agent", header)
				}
				return next(ctx, req)
			}
		})
		return nil
	}
}

// WithThrottle rate limits the client to rps requests per second with the
// given burst capacity.
func WithThrottle(rps float64, burst int) Option {
	return func(c *Client) error {
		mw, err := throttle.New(rps, burst)
		if err != nil {
			return err
		}
		c.Use(mw)
		return nil
	}
}

// WithLogger emits one structured log event per exchange.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) error {
		c.Use(Logging(log))
		return nil
	}
}

// WithTracing wraps every exchange in an OpenTelemetry client span.
func WithTracing() Option {
	return func(c *Client) error {
		c.Use(Tracing())
		return nil
	}
}

// WithMiddleware appends custom middlewares to the chain.
func WithMiddleware(mws ...Middleware) Option {
	return func(c *Client) error {
		c.Use(mws...)
		return nil
	}
}
