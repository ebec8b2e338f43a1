package http

import (
	"io"
	"sync"
)

// Body adapts a transport-owned byte source into the response body stream.
// It enforces the stream contract the rest of the client is built on:
//
//   - single pass: bytes are handed out once, in order, as they arrive
//   - sticky termination: after io.EOF or a failure, every further Read
//     returns that same terminal result
//   - prompt release: the underlying connection or fetch stream is released
//     exactly once, at termination or on Close, whichever comes first
//
// Close before the natural end of stream discards the rest of the body and
// pins the terminal state to a cancellation, matching what a caller that
// walked away from the stream should observe afterwards.
//
// Read and Close may race; a Close from another goroutine unblocks a Read
// that is waiting on the transport by releasing the resource under it.
type Body struct {
	src     io.Reader
	release func() error

	mu       sync.Mutex
	terminal error
	released bool
}

// NewBody wraps src. release is invoked exactly once when the stream
// terminates; it must unblock any in-flight src.Read. A release failure
// surfaces only through Close; when the stream terminates on its own,
// the final Read reports the stream outcome and the release error is
// dropped.
func NewBody(src io.Reader, release func() error) *Body {
	return &Body{src: src, release: release}
}

func (b *Body) Read(p []byte) (int, error) {
	b.mu.Lock()
	if t := b.terminal; t != nil {
		b.mu.Unlock()
		return 0, t
	}
	b.mu.Unlock()

	// The read happens unlocked so a concurrent Close can release the
	// transport under us instead of deadlocking on the mutex.
	n, err := b.src.Read(p)

	b.mu.Lock()
	defer b.mu.Unlock()
	if t := b.terminal; t != nil {
		// Closed while we were blocked. The terminal state set by Close
		// wins; whatever the unblocked read reported is a side effect of
		// the teardown.
		return 0, t
	}
	if err == nil {
		return n, nil
	}
	if err == io.EOF {
		b.seal(io.EOF)
		return n, io.EOF
	}
	e := Coerce("read body", err)
	b.seal(e)
	return n, e
}

// Close terminates the stream. Closing an already-terminated stream is a
// no-op. Closing before end of stream records a cancellation so later Reads
// keep reporting that the body was abandoned, not that it ended cleanly.
func (b *Body) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.terminal == nil {
		b.terminal = Errorf(KindCancelled, "read body", "body closed before end of stream")
	}
	if b.released {
		return nil
	}
	b.released = true
	if b.release == nil {
		return nil
	}
	return b.release()
}

// seal records the terminal state and releases the resource. mu held.
func (b *Body) seal(t error) {
	b.terminal = t
	if b.released {
		return
	}
	b.released = true
	if b.release != nil {
		b.release()
	}
}
