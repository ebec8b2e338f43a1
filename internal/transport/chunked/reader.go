// Package chunked implements the HTTP/1.1 chunked transfer coding. The
// reader yields payload bytes only, the writer frames payload into chunks.
package chunked

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// ErrMalformedEncoding is wrapped by every framing failure the reader can
// produce, so callers can classify with errors.Is without string matching.
// Truncation is reported as io.ErrUnexpectedEOF instead.
var ErrMalformedEncoding = errors.New("malformed chunked encoding")

// maxChunkHeaderDigits bounds the hex size token. Sixteen digits already
// exceed any length a peer can legitimately send.
const maxChunkHeaderDigits = 16

// NewReader decodes a chunked byte stream from r. Read returns io.EOF at
// the terminal zero-length chunk; any trailer section is left unread, which
// is fine for connections that are torn down after the body.
func NewReader(r io.Reader) io.Reader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &reader{wire: br}
}

type reader struct {
	wire *bufio.Reader

	chunk     io.Reader
	read, n   int64
	sawLast   bool
	terminalE error
}

// readChunkSize parses one size line. Chunk extensions after ';' are
// ignored, matching what servers in the wild actually send.
func (c *reader) readChunkSize() (size uint64, err error) {
	var line []byte
	for more := true; more; {
		var part []byte
		part, more, err = c.wire.ReadLine()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return 0, err
		}
		line = append(line, part...)
		if len(line) > 4096 {
			return 0, fmt.Errorf("%w: chunk size line too long", ErrMalformedEncoding)
		}
	}
	digits := 0
parse:
	for _, b := range line {
		switch {
		case '0' <= b && b <= '9':
			b = b - '0'
		case 'a' <= b && b <= 'f':
			b = b - 'a' + 10
		case 'A' <= b && b <= 'F':
			b = b - 'A' + 10
		case b == ';' || b == ' ' || b == '\t':
			break parse
		default:
			return 0, fmt.Errorf("%w: invalid byte %q in chunk size", ErrMalformedEncoding, b)
		}
		digits++
		if digits > maxChunkHeaderDigits {
			return 0, fmt.Errorf("%w: chunk size too large", ErrMalformedEncoding)
		}
		size <<= 4
		size |= uint64(b)
	}
	if digits == 0 {
		return 0, fmt.Errorf("%w: missing chunk size", ErrMalformedEncoding)
	}
	return size, nil
}

// readChunkEnd consumes the CRLF that closes each chunk's data section.
func (c *reader) readChunkEnd() error {
	cr, err := c.wire.ReadByte()
	if err == nil {
		var lf byte
		if lf, err = c.wire.ReadByte(); err == nil {
			if cr != '\r' || lf != '\n' {
				return fmt.Errorf("%w: chunk data not terminated by CRLF", ErrMalformedEncoding)
			}
			return nil
		}
	}
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func (c *reader) Read(p []byte) (n int, err error) {
	if c.terminalE != nil {
		return 0, c.terminalE
	}
	if c.sawLast {
		return 0, io.EOF
	}
	if c.chunk == nil {
		size, err := c.readChunkSize()
		if err != nil {
			c.terminalE = err
			return 0, err
		}
		if size == 0 {
			c.sawLast = true
			return 0, io.EOF
		}
		c.chunk = io.LimitReader(c.wire, int64(size))
		c.n = int64(size)
		c.read = 0
	}
	n, err = c.chunk.Read(p)
	c.read += int64(n)
	if err == io.EOF {
		if c.read != c.n {
			c.terminalE = io.ErrUnexpectedEOF
			return n, io.ErrUnexpectedEOF
		}
		if err = c.readChunkEnd(); err != nil {
			c.terminalE = err
			return n, err
		}
		c.chunk = nil
		return n, nil
	}
	return n, err
}
