//go:build !js

package internal

import (
	"github.com/oscartbeaumont/async-web-client/internal/http"
	"github.com/oscartbeaumont/async-web-client/internal/transport"
)

// NewDefaultTransport returns the exchange engine for platforms with
// direct socket access.
func NewDefaultTransport(d http.Dialer) transport.Transport {
	return &transport.Socket{Dialer: d}
}
