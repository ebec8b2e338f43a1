package webclient

import (
	"github.com/oscartbeaumont/async-web-client/internal/http"
)

// Error is the error type every client operation returns. Inspect it
// through [KindOf] and friends rather than matching message text.
type Error = http.Error

// Kind partitions every failure the client can surface into a closed set.
type Kind = http.Kind

const (
	KindInvalidRequest    = http.KindInvalidRequest
	KindUnsupportedScheme = http.KindUnsupportedScheme
	KindConnect           = http.KindConnect
	KindTLS               = http.KindTLS
	KindProtocol          = http.KindProtocol
	KindTruncatedBody     = http.KindTruncatedBody
	KindIO                = http.KindIO
	KindCancelled         = http.KindCancelled
)

// TLSReason refines [KindTLS] failures.
type TLSReason = http.TLSReason

const (
	TLSReasonNone      = http.TLSReasonNone
	TLSCertInvalid     = http.TLSCertInvalid
	TLSHandshakeFailed = http.TLSHandshakeFailed
)

// KindOf extracts the failure kind from err, false when err did not come
// from this client.
func KindOf(err error) (Kind, bool) { return http.KindOf(err) }

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool { return http.IsKind(err, k) }

// TLSReasonOf extracts the handshake failure reason, if any.
func TLSReasonOf(err error) TLSReason { return http.TLSReasonOf(err) }
