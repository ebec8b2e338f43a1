package dialer

import (
	"context"
	"crypto/tls"
	"io"
	"net"

	"github.com/oscartbeaumont/async-web-client/internal/http"
)

var schemes = map[string]string{
	"http": "80", "https": "443",
}

var zeroDialer net.Dialer
var customDNSDialer = net.Dialer{
	Resolver: &customServerResolver,
}

func (d *CoreDialer) Dial(ctx context.Context, r *http.PreparedRequest) (io.ReadWriteCloser, error) {
	ctx = shadowStandardClientTrace(ctx)
	addr, port := r.U.Host, schemes[r.U.Scheme]
	if add, prt, err := net.SplitHostPort(addr); err == nil {
		addr, port = add, prt
	}
	hp := net.JoinHostPort(addr, port)

	conn, err := d.tryDialProxy(ctx, r)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		network, dialer, dialctx, dst := "tcp", &zeroDialer, ctx, hp

		if cfg := d.ResolveConfig; cfg != nil {
			if cfg.Network == "ip4" {
				network = "tcp4"
			} else if cfg.Network == "ip6" {
				network = "tcp6"
			}
			if static, ok := cfg.StaticHosts[addr]; ok {
				dst = net.JoinHostPort(static, port)
			}
			if dns := cfg.CustomDNSServer; dns != "" {
				dialctx = dnsServerCtx{dialctx, dns}
				dialer = &customDNSDialer
			}
		}
		conn, err = dialer.DialContext(dialctx, network, dst)
		if err != nil {
			return nil, connectError(ctx, err)
		}
	}
	if r.U.Scheme == "https" {
		tc, err := d.handshake(ctx, conn, r.U.Hostname())
		if err != nil {
			conn.Close()
			return nil, err
		}
		conn = tc
	}
	return http.NewHandle(conn), nil
}

// handshake upgrades conn to TLS. The config is cloned per dial so shared
// dialer state is never written to. The connection only ever negotiates
// HTTP/1.1.
func (d *CoreDialer) handshake(ctx context.Context, conn net.Conn, serverName string) (net.Conn, error) {
	config := d.TLSConfig.Clone()
	if config == nil {
		config = baseTLSConfig()
	}
	if config.ServerName == "" {
		config.ServerName = serverName
	}
	if config.RootCAs == nil {
		config.RootCAs = d.Roots.CertPool()
	}
	if config.MinVersion == 0 {
		config.MinVersion = tls.VersionTLS12
	}
	config.NextProtos = []string{"http/1.1"}
	c := tls.Client(conn, config)
	if err := c.HandshakeContext(ctx); err != nil {
		return nil, handshakeError(ctx, err)
	}
	return c, nil
}

// connectError pins dial-phase failures to the connect kind, unless the
// context was already done.
func connectError(ctx context.Context, err error) error {
	e := http.CoerceCtx(ctx, "dial", err)
	if e.Kind == http.KindIO {
		e.Kind = http.KindConnect
	}
	return e
}

// handshakeError keeps certificate problems distinct from everything else
// that can break a handshake, including plain connection failures, which
// all fold into the generic handshake reason.
func handshakeError(ctx context.Context, err error) error {
	e := http.CoerceCtx(ctx, "tls handshake", err)
	if e.Kind == http.KindTLS || e.Kind == http.KindCancelled {
		return e
	}
	return http.NewTLSError(http.TLSHandshakeFailed, "tls handshake", err)
}

