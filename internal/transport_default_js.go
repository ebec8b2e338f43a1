//go:build js

package internal

import (
	"github.com/oscartbeaumont/async-web-client/internal/http"
	"github.com/oscartbeaumont/async-web-client/internal/transport"
)

// NewDefaultTransport returns the exchange engine for sandboxed platforms
// where the host performs all networking. The dialer is not used there.
func NewDefaultTransport(http.Dialer) transport.Transport {
	return &transport.Fetch{}
}
