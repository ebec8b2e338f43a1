package transport

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"strconv"

	"github.com/oscartbeaumont/async-web-client/internal/http"
	"github.com/oscartbeaumont/async-web-client/internal/transport/fetch"
)

// Fetch delegates the entire exchange to a host capability, translating
// its response-started signal and chunk source into the same response
// shape [Socket] produces. Host header overrides do not apply here; the
// host derives Host from the URL itself.
type Fetch struct {
	// Capability overrides the process-wide default, mainly for tests.
	Capability fetch.Capability
}

func (f *Fetch) RoundTrip(ctx context.Context, r *http.PreparedRequest) (*http.Response, error) {
	capability := f.Capability
	if capability == nil {
		capability = fetch.Default()
	}
	if capability == nil {
		return nil, http.Errorf(http.KindConnect, "fetch", "no host fetch capability registered")
	}

	body, err := r.GetBody()
	if err != nil {
		return nil, http.NewError(http.KindInvalidRequest, "fetch", err)
	}
	defer body.Close()
	freq := &fetch.Request{
		Method:        r.Method,
		URL:           r.U.String(),
		Header:        r.Header.Clone(),
		ContentLength: r.ContentLength,
	}
	if body != http.NoBody {
		freq.Body = body
	}

	res, err := capability.Fetch(ctx, freq)
	if err != nil {
		return nil, fetchError(ctx, err)
	}

	resp := &http.Response{
		Proto:      "HTTP/1.1",
		Status:     res.Status,
		StatusCode: res.StatusCode,
		Header:     res.Header,
	}
	if resp.Status == "" {
		resp.Status = fmt.Sprintf("%d %s", res.StatusCode, nethttp.StatusText(res.StatusCode))
	}
	if resp.Header == nil {
		resp.Header = http.Header{}
	}
	resp.ContentLength = -1
	if v := resp.Header.Get("Content-Length"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 63); err == nil {
			resp.ContentLength = int64(n)
		}
	}

	src := res.Body
	if src == nil || noBodyExpected(r, resp.StatusCode) {
		if src != nil {
			src.Cancel()
		}
		resp.Body = http.NoBody
		return resp, nil
	}
	resp.Body = http.NewBody(&sourceReader{ctx: ctx, src: src}, src.Cancel)
	return resp, nil
}

// fetchError keeps host-reported failures inside the same two network
// categories the socket transport uses.
func fetchError(ctx context.Context, err error) error {
	var e *http.Error
	if errors.As(err, &e) {
		return e
	}
	e = http.CoerceCtx(ctx, "fetch", err)
	if e.Kind == http.KindIO && errors.Is(err, fetch.ErrConnect) {
		e.Kind = http.KindConnect
	}
	return e
}

// sourceReader adapts the pull-based chunk source into an io.Reader,
// carrying leftover chunk bytes across short reads. Zero-length chunks
// are swallowed here so consumers never observe them.
type sourceReader struct {
	ctx  context.Context
	src  fetch.Source
	rest []byte
}

func (s *sourceReader) Read(p []byte) (int, error) {
	for len(s.rest) == 0 {
		chunk, err := s.src.Next(s.ctx)
		if err != nil {
			return 0, err
		}
		s.rest = chunk
	}
	n := copy(p, s.rest)
	s.rest = s.rest[n:]
	return n, nil
}
