package chunked

import (
	"fmt"
	"io"
)

// NewWriter frames everything written to it as chunks on w. Close writes
// the terminal zero-length chunk; it does not close w.
func NewWriter(w io.Writer) io.WriteCloser {
	return &writer{wire: w}
}

type writer struct {
	wire io.Writer
}

func (w *writer) Write(data []byte) (n int, err error) {
	// Don't send 0-length data. It looks like EOF for chunked encoding.
	if len(data) == 0 {
		return 0, nil
	}
	if _, err = fmt.Fprintf(w.wire, "%x\r\n", len(data)); err != nil {
		return 0, err
	}
	if n, err = w.wire.Write(data); err != nil {
		return
	}
	if n != len(data) {
		return n, io.ErrShortWrite
	}
	if _, err = io.WriteString(w.wire, "\r\n"); err != nil {
		return
	}
	if f, ok := w.wire.(interface{ Flush() error }); ok {
		err = f.Flush()
	}
	return
}

func (w *writer) Close() error {
	n, err := io.WriteString(w.wire, "0\r\n\r\n")
	if err == nil && n != 5 {
		return io.ErrShortWrite
	}
	return err
}
