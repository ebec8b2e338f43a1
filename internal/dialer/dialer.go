package dialer

import (
	"context"
	"crypto/tls"

	"github.com/oscartbeaumont/async-web-client/internal/http"
)

// Dialers handle pretty much everything related to the actual connection,
// including proxying requests, overriding name resolution and carrying
// the TLS trust anchors. The interface itself lives next to the request
// model so transports can depend on it without importing this package.
type Dialer = http.Dialer

// CoreDialer establishes one TCP connection per request, upgrading to TLS
// for https targets. Connections are never reused across exchanges; every
// request gets a fresh handle and tears it down when its response body
// terminates.
type CoreDialer struct {
	ResolveConfig *ResolveConfig

	// TLSConfig carries optional handshake overrides. It is cloned for
	// every dial, so a dialer can be shared freely.
	TLSConfig *tls.Config
	// Roots supplies the trust anchors for server certificate
	// verification. nil falls back to TLSConfig.RootCAs, and from there
	// to the system store.
	Roots *TrustRoots

	GetProxy    func(ctx context.Context, r *http.Request) (string, error)
	ProxyConfig *ProxyConfig
}

func (d *CoreDialer) Clone() *CoreDialer {
	return &CoreDialer{
		ResolveConfig: d.ResolveConfig.Clone(),
		TLSConfig:     d.TLSConfig.Clone(),
		Roots:         d.Roots,
		GetProxy:      d.GetProxy,
		ProxyConfig:   d.ProxyConfig.Clone(),
	}
}

func (d *CoreDialer) Unwrap() Dialer {
	return nil
}
