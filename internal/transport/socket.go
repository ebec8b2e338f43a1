package transport

import (
	"context"
	"errors"

	"github.com/oscartbeaumont/async-web-client/internal/http"
)

// Socket drives an exchange over a dialed connection: connect, optionally
// upgrade to TLS, write the HTTP/1.1 request, decode the response header
// section, then hand the remaining connection bytes out as the body
// stream. The connection is bound to ctx for the whole exchange, so
// cancellation tears it down and unblocks whatever was parked on it.
type Socket struct {
	Dialer http.Dialer

	codec HTTP1
}

func (s *Socket) RoundTrip(ctx context.Context, r *http.PreparedRequest) (*http.Response, error) {
	if s.Dialer == nil {
		return nil, http.Errorf(http.KindConnect, "dial", "no dialer configured")
	}
	conn, err := s.Dialer.Dial(ctx, r)
	if err != nil {
		return nil, dialError(ctx, err)
	}
	handle := http.NewHandle(conn)
	stop := handle.Bind(ctx)
	release := func() error {
		stop()
		return handle.Close()
	}

	if err := s.codec.Write(ctx, handle, r); err != nil {
		release()
		return nil, err
	}
	resp := &http.Response{}
	if err := s.codec.Read(ctx, handle, r, resp); err != nil {
		release()
		return nil, err
	}
	if resp.Body == http.NoBody {
		// Nothing left to stream, the exchange is already over.
		release()
		return resp, nil
	}
	resp.Body = http.NewBody(resp.Body, release)
	return resp, nil
}

// dialError folds failures from custom dialers into the connect kind while
// preserving kinds the core dialer already assigned.
func dialError(ctx context.Context, err error) error {
	var e *http.Error
	if errors.As(err, &e) {
		return e
	}
	e = http.CoerceCtx(ctx, "dial", err)
	if e.Kind == http.KindIO {
		e.Kind = http.KindConnect
	}
	return e
}
