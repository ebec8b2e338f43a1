package dialer

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
)

// TrustRoots is an immutable set of trust anchors used to verify server
// certificates. One value may be shared by any number of dialers and
// in-flight requests; nothing mutates the pool after construction.
type TrustRoots struct {
	pool *x509.CertPool
}

// TrustRootsFromPEM builds trust roots from one or more PEM bundles. It
// fails when no certificate could be parsed out of any bundle.
func TrustRootsFromPEM(bundles ...[]byte) (*TrustRoots, error) {
	pool := x509.NewCertPool()
	found := false
	for _, pem := range bundles {
		if pool.AppendCertsFromPEM(pem) {
			found = true
		}
	}
	if !found {
		return nil, errors.New("dialer: no certificates found in PEM bundles")
	}
	return &TrustRoots{pool: pool}, nil
}

// TrustRootsFromCerts builds trust roots from already-parsed certificates.
func TrustRootsFromCerts(certs ...*x509.Certificate) *TrustRoots {
	pool := x509.NewCertPool()
	for _, c := range certs {
		pool.AddCert(c)
	}
	return &TrustRoots{pool: pool}
}

// SystemTrustRoots loads the platform certificate store.
func SystemTrustRoots() (*TrustRoots, error) {
	pool, err := x509.SystemCertPool()
	if err != nil {
		return nil, err
	}
	return &TrustRoots{pool: pool}, nil
}

// CertPool exposes the underlying pool for use in a [tls.Config]. Callers
// must treat it as read-only.
func (r *TrustRoots) CertPool() *x509.CertPool {
	if r == nil {
		return nil
	}
	return r.pool
}

// baseTLSConfig is the starting config for handshakes when the dialer
// carries no explicit [tls.Config].
func baseTLSConfig() *tls.Config {
	return &tls.Config{MinVersion: tls.VersionTLS12}
}
