package dialer

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"io"
	"math/rand"
	"net"
	"net/url"

	"github.com/oscartbeaumont/async-web-client/internal/http"
	"github.com/oscartbeaumont/async-web-client/internal/transport"
)

type ProxyConfig struct {
	TLSConfig      *tls.Config // the [*tls.Config] to use with proxy, if nil, *[CoreDialer.TLSConfig] will be used
	ResolveLocally bool
	ResolveConfig  *ResolveConfig // overrides the resolver config for dialer for proxy
}

func (c *ProxyConfig) Clone() *ProxyConfig {
	if c == nil {
		return nil
	}
	return &ProxyConfig{
		TLSConfig:      c.TLSConfig.Clone(),
		ResolveLocally: c.ResolveLocally,
		ResolveConfig:  c.ResolveConfig.Clone(),
	}
}

var h1Transport = transport.HTTP1{}

func (d *CoreDialer) tryDialProxy(ctx context.Context, r *http.PreparedRequest) (net.Conn, error) {
	if d.GetProxy == nil {
		return nil, nil
	}
	proxy, perr := d.GetProxy(ctx, r.Request)
	if perr != nil {
		return nil, http.NewError(http.KindConnect, "proxy", perr)
	}
	if proxy == "" {
		return nil, nil
	}
	proxyU, perr := url.Parse(proxy)
	if perr != nil {
		return nil, http.NewError(http.KindConnect, "proxy", perr)
	}
	return d.DialContextOverProxy(ctx, r.U, proxyU)
}

// DialContextOverProxy creates a tunneled connection over an http or https
// proxy. Network failures while standing the tunnel up report as connect
// failures; a malformed proxy response keeps the protocol kind and the
// proxy's own TLS handshake keeps the tls kind.
// This part of logic may be reused when wrapping *[CoreDialer] into
// a new custom [Dialer]
func (d *CoreDialer) DialContextOverProxy(ctx context.Context, remote, proxy *url.URL) (net.Conn, error) {
	if proxy.Scheme != "http" && proxy.Scheme != "https" { // TODO: socks
		return nil, http.Errorf(http.KindConnect, "proxy", "unsupported proxy scheme %q", proxy.Scheme)
	}
	hp := proxy.Host
	if proxy.Port() == "" {
		hp = net.JoinHostPort(proxy.Hostname(), schemes[proxy.Scheme])
	}

	conn, err := zeroDialer.DialContext(ctx, "tcp", hp)
	if err != nil {
		return nil, connectError(ctx, err)
	}

	if proxy.Scheme == "https" {
		tlsCfg := d.proxyTLSConfig(proxy.Hostname())
		c := tls.Client(conn, tlsCfg)
		if err := c.HandshakeContext(ctx); err != nil {
			conn.Close()
			return nil, handshakeError(ctx, err)
		}
		conn = c
	}

	addr, port := remote.Host, schemes[remote.Scheme]
	if add, prt, err := net.SplitHostPort(addr); err == nil {
		addr, port = add, prt
	}

	if d.ProxyConfig != nil && d.ProxyConfig.ResolveLocally {
		// With neither config set, local resolution runs on defaults.
		dnsCfg := d.ProxyConfig.ResolveConfig.Merge(d.ResolveConfig)
		if dnsCfg == nil {
			dnsCfg = &ResolveConfig{}
		}

		if res, ok := dnsCfg.StaticHosts[addr]; ok {
			addr = res
		} else {
			ips, err := d.lookup(ctx, dnsCfg, addr)
			if err != nil {
				conn.Close()
				return nil, connectError(ctx, err)
			}
			addr = ips[rand.Intn(len(ips))].String()
		}
	}

	connReq := &http.PreparedRequest{
		Request:       &http.Request{Method: "CONNECT"},
		Method:        "CONNECT",
		HeaderHost:    remote.Host,
		U:             &url.URL{Opaque: net.JoinHostPort(addr, port)},
		GetBody:       func() (io.ReadCloser, error) { return http.NoBody, nil },
		ContentLength: -1,
	}
	if auth := proxy.User.String(); auth != "" {
		connReq.Header = http.Header{
			"Proxy-Authorization": {"Basic " + base64.StdEncoding.EncodeToString([]byte(auth))},
		}
	}
	if err := h1Transport.Write(ctx, conn, connReq); err != nil {
		conn.Close()
		return nil, connectError(ctx, err)
	}
	resp := &http.Response{}
	if err := h1Transport.Read(ctx, conn, connReq, resp); err != nil {
		conn.Close()
		return nil, connectError(ctx, err)
	}
	if resp.StatusCode != 200 {
		s, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		conn.Close()
		return nil, http.Errorf(http.KindConnect, "proxy",
			"proxy server returned error. status:%d, body:%s", resp.StatusCode, string(s))
	}
	return conn, nil
}

// proxyTLSConfig resolves the handshake config for the proxy hop itself.
func (d *CoreDialer) proxyTLSConfig(serverName string) *tls.Config {
	var cfg *tls.Config
	if d.ProxyConfig != nil {
		cfg = d.ProxyConfig.TLSConfig.Clone()
	}
	if cfg == nil {
		cfg = d.TLSConfig.Clone()
	}
	if cfg == nil {
		cfg = baseTLSConfig()
	}
	if cfg.ServerName == "" {
		cfg.ServerName = serverName
	}
	if cfg.RootCAs == nil {
		cfg.RootCAs = d.Roots.CertPool()
	}
	if cfg.MinVersion == 0 {
		cfg.MinVersion = tls.VersionTLS12
	}
	return cfg
}
