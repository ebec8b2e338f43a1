package webclient

import (
	"crypto/x509"

	"github.com/oscartbeaumont/async-web-client/internal/dialer"
)

type Dialer = dialer.Dialer
type CoreDialer = dialer.CoreDialer

type ProxyConfig = dialer.ProxyConfig
type ResolveConfig = dialer.ResolveConfig

// TrustRoots pins the certificate authorities accepted during the TLS
// handshake.
type TrustRoots = dialer.TrustRoots

// TrustRootsFromPEM builds a [TrustRoots] from PEM encoded certificate
// bundles.
func TrustRootsFromPEM(bundles ...[]byte) (*TrustRoots, error) {
	return dialer.TrustRootsFromPEM(bundles...)
}

// TrustRootsFromCerts builds a [TrustRoots] from already parsed
// certificates.
func TrustRootsFromCerts(certs ...*x509.Certificate) *TrustRoots {
	return dialer.TrustRootsFromCerts(certs...)
}

// SystemTrustRoots explicitly selects the trust roots of the operating
// system.
func SystemTrustRoots() (*TrustRoots, error) {
	return dialer.SystemTrustRoots()
}
