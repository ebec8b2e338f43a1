package http_test

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"testing"

	"github.com/oscartbeaumont/async-web-client/internal/http"
	"github.com/oscartbeaumont/async-web-client/internal/transport/chunked"
)

var coerceShouldBe = map[string]struct {
	err  error
	kind http.Kind
	tls  http.TLSReason
}{
	"Cancelled":        {err: context.Canceled, kind: http.KindCancelled},
	"DeadlineWrapped":  {err: fmt.Errorf("read: %w", context.DeadlineExceeded), kind: http.KindCancelled},
	"UnknownAuthority": {err: x509.UnknownAuthorityError{}, kind: http.KindTLS, tls: http.TLSCertInvalid},
	"VerifyFailed": {
		err:  &tls.CertificateVerificationError{Err: x509.UnknownAuthorityError{}},
		kind: http.KindTLS, tls: http.TLSCertInvalid,
	},
	"HostnameMismatch": {err: x509.HostnameError{Host: "example.com"}, kind: http.KindTLS, tls: http.TLSCertInvalid},
	"NotTLSServer":     {err: tls.RecordHeaderError{Msg: "first record does not look like a TLS handshake"}, kind: http.KindTLS, tls: http.TLSHandshakeFailed},
	"AlertReceived":    {err: tls.AlertError(80), kind: http.KindTLS, tls: http.TLSHandshakeFailed},
	"ChunkFraming":     {err: fmt.Errorf("%w: invalid byte", chunked.ErrMalformedEncoding), kind: http.KindProtocol},
	"Truncated":        {err: io.ErrUnexpectedEOF, kind: http.KindTruncatedBody},
	"DNSFailure":       {err: &net.DNSError{Err: "no such host", Name: "example.invalid"}, kind: http.KindConnect},
	"DialRefused":      {err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}, kind: http.KindConnect},
	"ReadReset":        {err: &net.OpError{Op: "read", Err: errors.New("connection reset by peer")}, kind: http.KindIO},
	"Unrecognized":     {err: errors.New("boom"), kind: http.KindIO},
}

func TestCoerce(t *testing.T) {
	for name, cas := range coerceShouldBe {
		tCase := cas
		t.Run(name, func(t *testing.T) {
			got := http.Coerce("test", tCase.err)
			if got.Kind != tCase.kind {
				t.Errorf("kind = %v, want %v", got.Kind, tCase.kind)
			}
			if got.TLS != tCase.tls {
				t.Errorf("tls reason = %v, want %v", got.TLS, tCase.tls)
			}
			if !errors.Is(got, tCase.err) {
				t.Error("cause not preserved through Unwrap")
			}
		})
	}
}

func TestCoerceNil(t *testing.T) {
	if got := http.Coerce("test", nil); got != nil {
		t.Errorf("Coerce(nil) = %v", got)
	}
}

func TestCoercePassthrough(t *testing.T) {
	orig := http.NewError(http.KindProtocol, "read response", errors.New("bad status line"))
	if got := http.Coerce("elsewhere", fmt.Errorf("wrapped: %w", orig)); got != orig {
		t.Errorf("classified error reclassified as %v", got)
	}
}

func TestCoerceCtx(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := http.CoerceCtx(ctx, "read response", errors.New("use of closed network connection"))
	if got.Kind != http.KindCancelled {
		t.Errorf("kind = %v, want cancelled", got.Kind)
	}
	if !errors.Is(got, context.Canceled) {
		t.Error("cause should be the context error")
	}

	live := http.CoerceCtx(context.Background(), "read response", io.ErrUnexpectedEOF)
	if live.Kind != http.KindTruncatedBody {
		t.Errorf("kind = %v, want truncated body", live.Kind)
	}
}

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("outer: %w", http.Errorf(http.KindConnect, "dial", "refused"))
	if k, ok := http.KindOf(err); !ok || k != http.KindConnect {
		t.Errorf("KindOf = %v, %v", k, ok)
	}
	if _, ok := http.KindOf(errors.New("plain")); ok {
		t.Error("plain error should carry no kind")
	}
	if !http.IsKind(err, http.KindConnect) {
		t.Error("IsKind(KindConnect) = false")
	}
}
