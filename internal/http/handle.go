package http

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
)

// Handle owns one connection for the duration of one exchange. It travels
// from dialer to transport to response body; whoever observes the end of
// the exchange closes it. Close is idempotent, so the cancellation
// watchdog and the body teardown can race without double-releasing.
type Handle struct {
	rwc    io.ReadWriteCloser
	closed atomic.Bool
	done   chan struct{}
}

// NewHandle wraps rwc. Wrapping an existing handle returns it unchanged.
func NewHandle(rwc io.ReadWriteCloser) *Handle {
	if h, ok := rwc.(*Handle); ok {
		return h
	}
	return &Handle{rwc: rwc, done: make(chan struct{})}
}

func (h *Handle) Read(p []byte) (int, error)  { return h.rwc.Read(p) }
func (h *Handle) Write(p []byte) (int, error) { return h.rwc.Write(p) }

// Close releases the connection. Only the first call reaches the
// underlying closer; later calls return nil.
func (h *Handle) Close() error {
	if !h.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(h.done)
	return h.rwc.Close()
}

// Closed reports whether the handle has been released.
func (h *Handle) Closed() bool { return h.closed.Load() }

// Raw exposes the wrapped stream for callers that need the concrete
// connection underneath, such as tunnel upgrades.
func (h *Handle) Raw() io.ReadWriteCloser { return h.rwc }

// Bind tears the connection down as soon as ctx is cancelled, which
// unblocks any read or write parked on it. The returned stop function
// detaches the watchdog without closing anything and may be called more
// than once.
func (h *Handle) Bind(ctx context.Context) (stop func()) {
	quit := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			h.Close()
		case <-quit:
		case <-h.done:
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(quit) }) }
}
