package transport

import (
	"crypto/tls"
	"net"
)

// Listener wraps a net.Listener, handing back a Transport-ready Conn for
// every accepted socket. Adapted from the teacher's proxyproto.Listener,
// minus the PROXY-header auto-read: PROXY decoding belongs to the
// connection goroutine's parse loop (spec §4.2), not to acceptance.
type Listener struct {
	net.Listener
	scheme string
}

// NewListener wraps ln, tagging every accepted Conn with scheme.
func NewListener(ln net.Listener, scheme string) *Listener {
	return &Listener{Listener: ln, scheme: scheme}
}

// NewTLSListener is the TLS-terminated convenience constructor: accepted
// connections are tagged "tls", the Transport.Name that default-port
// resolution maps to 443 per spec §4.5.
func NewTLSListener(ln net.Listener, cfg *tls.Config) *Listener {
	return &Listener{Listener: tls.NewListener(ln, cfg), scheme: "tls"}
}

// Accept returns a Transport, not a net.Conn, so callers never need to
// re-wrap it.
func (l *Listener) Accept() (Transport, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	return NewConn(conn, l.scheme), nil
}

func (l *Listener) Close() error {
	return l.Listener.Close()
}

func (l *Listener) Addr() net.Addr {
	return l.Listener.Addr()
}
