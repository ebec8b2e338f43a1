package http

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/oscartbeaumont/async-web-client/internal/transport/chunked"
)

// Kind partitions every failure the client can surface. The set is closed:
// transports and adapters must map each internal failure onto exactly one
// kind, so callers can switch on it without string matching.
type Kind int

const (
	// KindInvalidRequest marks requests rejected before any I/O, such as an
	// unparsable URL, a missing host or a header that fails validation.
	KindInvalidRequest Kind = iota
	// KindUnsupportedScheme marks URL schemes other than http and https.
	KindUnsupportedScheme
	// KindConnect covers name resolution and TCP connection establishment.
	KindConnect
	// KindTLS covers handshake failures, refined by [TLSReason].
	KindTLS
	// KindProtocol marks responses that violate HTTP/1.x framing.
	KindProtocol
	// KindTruncatedBody marks bodies that end before their declared length.
	KindTruncatedBody
	// KindIO covers transport read and write failures after connecting.
	KindIO
	// KindCancelled marks operations abandoned through context cancellation
	// or by closing the body before its end of stream.
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid request"
	case KindUnsupportedScheme:
		return "unsupported scheme"
	case KindConnect:
		return "connect failed"
	case KindTLS:
		return "tls failed"
	case KindProtocol:
		return "protocol violation"
	case KindTruncatedBody:
		return "truncated body"
	case KindIO:
		return "io failed"
	case KindCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// TLSReason distinguishes why a handshake failed. Certificate trouble gets
// its own reason so callers can tell a broken trust chain from everything
// else that can go wrong during the handshake.
type TLSReason int

const (
	TLSReasonNone TLSReason = iota
	TLSCertInvalid
	TLSHandshakeFailed
)

func (r TLSReason) String() string {
	switch r {
	case TLSCertInvalid:
		return "certificate invalid"
	case TLSHandshakeFailed:
		return "handshake failed"
	}
	return ""
}

// Error is the single error type returned from client operations. Op names
// the phase that failed ("dial", "write request", "read response", ...) and
// Err preserves the underlying cause for errors.Is and errors.As.
type Error struct {
	Kind Kind
	TLS  TLSReason
	Op   string
	Err  error
}

func (e *Error) Error() string {
	msg := "webclient: " + e.Kind.String()
	if e.Kind == KindTLS && e.TLS != TLSReasonNone {
		msg += " (" + e.TLS.String() + ")"
	}
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err with a kind and the operation that produced it.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf builds an [Error] whose cause is a freshly formatted message.
func Errorf(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// NewTLSError wraps a handshake failure with its reason.
func NewTLSError(reason TLSReason, op string, err error) *Error {
	return &Error{Kind: KindTLS, TLS: reason, Op: op, Err: err}
}

// KindOf extracts the failure kind from err. The second return is false when
// err carries no kind, which only happens for errors that never crossed a
// client boundary.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool {
	got, ok := KindOf(err)
	return ok && got == k
}

// TLSReasonOf extracts the handshake failure reason, if any.
func TLSReasonOf(err error) TLSReason {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindTLS {
		return e.TLS
	}
	return TLSReasonNone
}

// Coerce maps an arbitrary failure from the transport layer onto the closed
// kind set. The mapping is total: anything unrecognized is an I/O failure.
// Errors that already carry a kind pass through unchanged.
func Coerce(op string, err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindCancelled, Op: op, Err: err}
	case isCertificateError(err):
		return &Error{Kind: KindTLS, TLS: TLSCertInvalid, Op: op, Err: err}
	case isHandshakeError(err):
		return &Error{Kind: KindTLS, TLS: TLSHandshakeFailed, Op: op, Err: err}
	case errors.Is(err, chunked.ErrMalformedEncoding):
		return &Error{Kind: KindProtocol, Op: op, Err: err}
	case errors.Is(err, io.ErrUnexpectedEOF):
		return &Error{Kind: KindTruncatedBody, Op: op, Err: err}
	case isConnectError(err):
		return &Error{Kind: KindConnect, Op: op, Err: err}
	}
	return &Error{Kind: KindIO, Op: op, Err: err}
}

// CoerceCtx is [Coerce] with cancellation awareness. A failure observed
// while ctx is already done is reported as cancelled, because tearing down
// the connection is how cancellation manifests mid-operation.
func CoerceCtx(ctx context.Context, op string, err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if ctx.Err() != nil {
		return &Error{Kind: KindCancelled, Op: op, Err: ctx.Err()}
	}
	return Coerce(op, err)
}

func isCertificateError(err error) bool {
	var (
		verify    *tls.CertificateVerificationError
		unknown   x509.UnknownAuthorityError
		hostname  x509.HostnameError
		invalid   x509.CertificateInvalidError
		sysroots  x509.SystemRootsError
		untrusted x509.ConstraintViolationError
	)
	return errors.As(err, &verify) ||
		errors.As(err, &unknown) ||
		errors.As(err, &hostname) ||
		errors.As(err, &invalid) ||
		errors.As(err, &sysroots) ||
		errors.As(err, &untrusted)
}

func isHandshakeError(err error) bool {
	var (
		record tls.RecordHeaderError
		alert  tls.AlertError
	)
	return errors.As(err, &record) || errors.As(err, &alert)
}

func isConnectError(err error) bool {
	var (
		dns  *net.DNSError
		addr *net.AddrError
		op   *net.OpError
	)
	if errors.As(err, &dns) || errors.As(err, &addr) {
		return true
	}
	return errors.As(err, &op) && op.Op == "dial"
}
