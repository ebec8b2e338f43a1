package http

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/net/http/httpguts"
	"golang.org/x/net/idna"
)

// PreparedRequest is the validated, transport-ready form of a [Request].
// Preparation resolves everything that can fail without touching the
// network, so transports can assume the request is well formed.
type PreparedRequest struct {
	*Request

	// Method is the validated method, defaulted to GET when unset.
	Method string
	U      *url.URL
	// GetBody yields the outbound body stream. For bodies backed by
	// plain readers it is single-shot.
	GetBody    func() (io.ReadCloser, error)
	Header     http.Header
	HeaderHost string

	// ContentLength is the outbound body length, -1 when unknown ahead
	// of time. Unknown lengths are sent with chunked framing.
	ContentLength int64
}

// Prepare validates r and resolves its wire-level form. All failures here
// carry KindInvalidRequest or KindUnsupportedScheme; no I/O has happened
// yet, so callers get them straight from the send call, not the body.
func (r *Request) Prepare() (*PreparedRequest, error) {
	u, err := url.Parse(r.URL)
	if err != nil {
		return nil, NewError(KindInvalidRequest, "prepare", err)
	}
	switch u.Scheme {
	case "":
		// Scheme-relative targets default to the secure variant.
		u.Scheme = "https"
	case "http", "https":
	default:
		return nil, Errorf(KindUnsupportedScheme, "prepare", "scheme %q", u.Scheme)
	}

	method := r.Method
	if method == "" {
		method = "GET"
	}
	if !validMethod(method) {
		return nil, Errorf(KindInvalidRequest, "prepare", "invalid method %q", r.Method)
	}

	if err := normalizeHost(u); err != nil {
		return nil, err
	}

	headers := r.Header.Clone()
	if headers == nil {
		headers = http.Header{}
	}
	host := u.Host
	cl := int64(-1)
	// user defined headers has higher priority
	for k, v := range headers {
		if strings.EqualFold(k, "Host") {
			if len(v) != 0 {
				if !httpguts.ValidHostHeader(v[0]) {
					return nil, Errorf(KindInvalidRequest, "prepare", "invalid Host header %q", v[0])
				}
				host = v[0]
			}
			delete(headers, k)
		}

		if strings.EqualFold(k, "Content-Length") {
			if len(v) != 0 {
				if v, err := strconv.ParseInt(v[0], 10, 64); err == nil {
					cl = v
				}
			}
			delete(headers, k)
		}
	}
	if host == "" {
		return nil, Errorf(KindInvalidRequest, "prepare", "missing host in %q", r.URL)
	}
	for k, vv := range headers {
		if !httpguts.ValidHeaderFieldName(k) {
			return nil, Errorf(KindInvalidRequest, "prepare", "invalid header field name %q", k)
		}
		for _, v := range vv {
			if !httpguts.ValidHeaderFieldValue(v) {
				return nil, Errorf(KindInvalidRequest, "prepare", "invalid value for header field %q", k)
			}
		}
	}

	pr := &PreparedRequest{
		Request: r, Method: method, U: u,
		Header: headers, HeaderHost: host,
		ContentLength: cl,
	}
	if err := pr.updateBody(); err != nil {
		// note that updateBody potentially updates content-length
		return nil, err
	}
	if cl != -1 && pr.ContentLength != cl {
		return nil, Errorf(KindInvalidRequest, "prepare",
			"conflicting value between body size and content-length request header")
	}
	return pr, nil
}

// should only be called once at [Prepare]
func (r *PreparedRequest) updateBody() (err error) {
	if r.Request.Body == nil || r.Request.Body == http.NoBody {
		r.GetBody = func() (io.ReadCloser, error) {
			return http.NoBody, nil
		}
		return nil
	}
	switch b := r.Request.Body.(type) {
	case string:
		r.ContentLength = int64(len(b))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(b)), nil
		}
	case []byte:
		r.ContentLength = int64(len(b))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(b)), nil
		}
	case *bytes.Buffer: // below is taken from http.NewRequest
		r.ContentLength = int64(b.Len())
		buf := b.Bytes()
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(buf)), nil
		}
	case *bytes.Reader:
		r.ContentLength = int64(b.Len())
		snapshot := *b
		r.GetBody = func() (io.ReadCloser, error) {
			r := snapshot
			return io.NopCloser(&r), nil
		}
	case *strings.Reader:
		r.ContentLength = int64(b.Len())
		snapshot := *b
		r.GetBody = func() (io.ReadCloser, error) {
			r := snapshot
			return io.NopCloser(&r), nil
		}
	case io.Reader:
		// A bare reader streams once; its length is unknown unless the
		// concrete type can report it.
		if sizer, ok := b.(interface{ Size() int64 }); ok {
			r.ContentLength = sizer.Size()
		}
		cb, ok := b.(io.ReadCloser)
		if !ok {
			cb = io.NopCloser(b)
		}
		var once atomic.Bool
		r.GetBody = func() (io.ReadCloser, error) {
			if once.CompareAndSwap(false, true) {
				return cb, nil
			}
			return nil, http.ErrBodyReadAfterClose
		}
	default:
		return Errorf(KindInvalidRequest, "prepare", "unsupported body type: %T", r.Request.Body)
	}
	return nil
}

// normalizeHost rewrites an international hostname to its ASCII form, the
// same way the standard library transport does before dialing.
func normalizeHost(u *url.URL) error {
	if isASCII(u.Host) {
		return nil
	}
	a, err := idna.Lookup.ToASCII(u.Hostname())
	if err != nil {
		return NewError(KindInvalidRequest, "prepare", fmt.Errorf("invalid host %q: %w", u.Hostname(), err))
	}
	if p := u.Port(); p != "" {
		a = net.JoinHostPort(a, p)
	}
	u.Host = a
	return nil
}

func validMethod(m string) bool {
	for _, r := range m {
		if !httpguts.IsTokenRune(r) {
			return false
		}
	}
	return len(m) > 0
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
