package transport

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/oscartbeaumont/async-web-client/internal/http"
	"github.com/oscartbeaumont/async-web-client/internal/transport/chunked"
)

// HTTP1 encodes requests and decodes responses in HTTP/1.1 message syntax
// over an abstract stream. It owns framing only; the connection lifecycle
// belongs to the caller.
type HTTP1 struct{}

func (t HTTP1) Write(ctx context.Context, w io.Writer, r *http.PreparedRequest) error {
	body, err := r.GetBody() // can write body
	if err != nil {
		return http.NewError(http.KindInvalidRequest, "write request", err)
	}
	if body == nil {
		body = http.NoBody
	}
	defer body.Close() // request body is ALWAYS closed

	useChunked := body != http.NoBody && r.ContentLength < 0
	if err := t.writeHeader(w, r, body != http.NoBody, useChunked); err != nil {
		return http.CoerceCtx(ctx, "write request", err)
	}
	if body == http.NoBody {
		return nil
	}
	if useChunked {
		cw := chunked.NewWriter(w)
		if _, err := io.Copy(cw, body); err != nil {
			return http.CoerceCtx(ctx, "write request", err)
		}
		if err := cw.Close(); err != nil {
			return http.CoerceCtx(ctx, "write request", err)
		}
		return nil
	}
	n, err := io.Copy(w, io.LimitReader(body, r.ContentLength))
	if err != nil {
		return http.CoerceCtx(ctx, "write request", err)
	}
	if n != r.ContentLength {
		return http.Errorf(http.KindInvalidRequest, "write request",
			"request body yielded %d bytes, Content-Length declared %d", n, r.ContentLength)
	}
	return nil
}

// writeHeader writes the request line and header section, e.g.:
//
//	GET / HTTP/1.1\r\n
//	Host: www.google.com\r\n
//	X-Xx-Yy: cccccc\r\n
//	\r\n
//
// Host always comes first. The framing header is chosen here and never
// taken from user headers; length-prefixed when the body size is known,
// chunked otherwise.
func (t HTTP1) writeHeader(w io.Writer, r *http.PreparedRequest, hasBody, useChunked bool) error {
	header := bufio.NewWriter(w) // default bufsize is 4096

	if _, err := header.WriteString(r.Method); err != nil {
		return err
	}
	header.WriteByte(' ')
	header.WriteString(r.U.RequestURI())
	header.WriteString(" HTTP/1.1\r\n")
	if err := header.Flush(); err != nil {
		return err
	}

	header.WriteString("Host: ")
	header.WriteString(r.HeaderHost)
	header.WriteString("\r\n")
	if hasBody {
		if useChunked {
			header.WriteString("Transfer-Encoding: chunked\r\n")
		} else {
			header.WriteString("Content-Length: ")
			header.WriteString(strconv.FormatInt(r.ContentLength, 10))
			header.WriteString("\r\n")
		}
	}
	for k, v := range r.Header {
		for _, v := range v {
			header.WriteString(k)
			header.WriteString(": ")
			header.WriteString(v)
			if _, err := header.WriteString("\r\n"); err != nil {
				return err
			}
		}
	}
	if _, err := header.WriteString("\r\n"); err != nil {
		return err
	}
	return header.Flush()
}

// Read decodes the status line and header section from r, then stores a
// framing-decoded reader for the remaining payload bytes in resp.Body.
// The reader is not yet a managed body stream; whoever owns the
// connection wraps it together with the release hook.
func (t HTTP1) Read(ctx context.Context, r io.Reader, req *http.PreparedRequest, resp *http.Response) error {
	tp := textproto.NewReader(bufio.NewReader(&ctxReader{ctx, r}))

	line, err := tp.ReadLine()
	if err != nil {
		return readErr(ctx, err)
	}
	proto, status, ok := strings.Cut(line, " ")
	if !ok {
		return http.Errorf(http.KindProtocol, "read response", "malformed response line %q", line)
	}
	if proto != "HTTP/1.1" && proto != "HTTP/1.0" {
		return http.Errorf(http.KindProtocol, "read response", "unsupported protocol version %q", proto)
	}
	resp.Proto = proto
	resp.Status = strings.TrimLeft(status, " ")

	statusCode, _, _ := strings.Cut(resp.Status, " ")
	if len(statusCode) != 3 {
		return http.Errorf(http.KindProtocol, "read response", "malformed status code %q", statusCode)
	}
	resp.StatusCode, err = strconv.Atoi(statusCode)
	if err != nil || resp.StatusCode < 0 {
		return http.Errorf(http.KindProtocol, "read response", "malformed status code %q", statusCode)
	}

	mimeHeader, err := tp.ReadMIMEHeader()
	if err != nil {
		return readErr(ctx, err)
	}
	if hp, ok := mimeHeader["Pragma"]; ok && len(hp) > 0 && hp[0] == "no-cache" {
		if _, presentcc := mimeHeader["Cache-Control"]; !presentcc {
			mimeHeader["Cache-Control"] = []string{"no-cache"}
		}
	}
	resp.Header = http.Header(mimeHeader)

	return t.readTransfer(tp.R, req, resp)
}

// readTransfer determines response body framing per RFC 9112 section 6.3
// and installs the matching payload reader.
func (t HTTP1) readTransfer(r *bufio.Reader, req *http.PreparedRequest, resp *http.Response) error {
	contentLens := resp.Header["Content-Length"]

	// Hardening against HTTP response smuggling, taken from standard library
	if len(contentLens) > 1 {
		// Per RFC 7230 Section 3.3.2
		first := textproto.TrimString(contentLens[0])
		for _, ct := range contentLens[1:] {
			if first != textproto.TrimString(ct) {
				return http.Errorf(http.KindProtocol, "read response",
					"message cannot contain multiple Content-Length headers; got %q", contentLens)
			}
		}

		// deduplicate Content-Length
		resp.Header.Del("Content-Length")
		resp.Header.Add("Content-Length", first)

		contentLens = resp.Header["Content-Length"]
	}

	cl := int64(-1)
	if len(contentLens) > 0 {
		v := textproto.TrimString(contentLens[0])
		n, err := strconv.ParseUint(v, 10, 63)
		if err != nil {
			return http.Errorf(http.KindProtocol, "read response", "bad Content-Length %q", v)
		}
		cl = int64(n)
	}

	if te := resp.Header["Transfer-Encoding"]; len(te) > 0 {
		if len(te) > 1 || !strings.EqualFold(textproto.TrimString(te[0]), "chunked") {
			return http.Errorf(http.KindProtocol, "read response", "unsupported transfer encoding %q", te)
		}
		// A length header next to chunked framing carries no meaning and
		// is dropped, like the standard library does.
		resp.Header.Del("Content-Length")
		resp.ContentLength = -1
		if noBodyExpected(req, resp.StatusCode) {
			resp.Body = http.NoBody
			return nil
		}
		resp.Body = io.NopCloser(chunked.NewReader(r))
		return nil
	}

	resp.ContentLength = cl
	if noBodyExpected(req, resp.StatusCode) || cl == 0 {
		resp.Body = http.NoBody
		return nil
	}
	if cl > 0 {
		resp.Body = io.NopCloser(&lengthReader{r, cl})
		return nil
	}
	// Neither length nor chunked framing: the payload runs until the peer
	// closes the connection.
	resp.Body = io.NopCloser(r)
	return nil
}

// noBodyExpected reports response messages defined to carry no payload
// regardless of their framing headers.
func noBodyExpected(req *http.PreparedRequest, status int) bool {
	switch {
	case req.Method == "HEAD":
		return true
	case status >= 100 && status < 200:
		return true
	case status == 204 || status == 304:
		return true
	case req.Method == "CONNECT" && status >= 200 && status < 300:
		return true
	}
	return false
}

// readErr maps header-phase failures: syntax problems keep the protocol
// kind, an early end of stream is an I/O failure, and anything observed
// after cancellation reports as cancelled.
func readErr(ctx context.Context, err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return http.NewError(http.KindCancelled, "read response", ctxErr)
	}
	var perr textproto.ProtocolError
	if errors.As(err, &perr) {
		return http.NewError(http.KindProtocol, "read response", err)
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return http.NewError(http.KindIO, "read response", err)
	}
	return http.Coerce("read response", err)
}

// ctxReader surfaces cancellation from reads that were unblocked by the
// watchdog tearing the connection down underneath them.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := c.r.Read(p)
	if err != nil && err != io.EOF && c.ctx.Err() != nil {
		return n, c.ctx.Err()
	}
	return n, err
}

// lengthReader reads exactly n bytes, turning an early end of stream into
// io.ErrUnexpectedEOF so truncation is distinguishable from completion.
type lengthReader struct {
	r io.Reader
	n int64
}

func (l *lengthReader) Read(p []byte) (int, error) {
	if l.n <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > l.n {
		p = p[:l.n]
	}
	n, err := l.r.Read(p)
	l.n -= int64(n)
	if err == io.EOF && l.n > 0 {
		err = io.ErrUnexpectedEOF
	}
	return n, err
}
