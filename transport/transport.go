// Package transport adapts a raw net.Conn into the recv/peername/close/name
// capability the connection goroutine consumes, the way the teacher's
// proxyproto.Conn adapted net.Conn for PROXY-protocol reading. Here the
// adaptation is generic: no protocol decoding happens in this package, it
// only tracks deadlines and exposes a minimal surface.
package transport

import (
	"net"
	"time"

	"github.com/pkg/errors"
)

// ErrClosed is returned by Recv once the underlying connection is closed.
var ErrClosed = errors.New("transport: connection closed")

// ErrTimeout is returned by Recv when the deadline elapses before data
// arrives.
var ErrTimeout = errors.New("transport: read timeout")

// Transport is the capability the connection goroutine is built against.
// It mirrors spec §6's Transport capability exactly: recv/peername/close/
// name, nothing else.
type Transport interface {
	// Recv reads whatever is currently available, up to an implementation
	// maximum, honoring the given absolute deadline. deadline.IsZero means
	// no deadline (infinite wait).
	Recv(deadline time.Time) ([]byte, error)
	Peername() (net.Addr, error)
	Close() error
	// Name reports the scheme tag used to pick the default port: a TLS-like
	// tag maps to 443, everything else to 80.
	Name() string
}

const recvChunkSize = 4096

// Conn is the net.Conn-backed Transport implementation. It keeps no
// deadline state of its own: each Recv sets the read deadline it is given
// on the underlying connection and leaves it in place afterwards.
type Conn struct {
	net.Conn
	scheme string
}

// NewConn wraps conn, reporting scheme (e.g. "tcp", "tls") for default-port
// resolution.
func NewConn(conn net.Conn, scheme string) *Conn {
	return &Conn{Conn: conn, scheme: scheme}
}

func (c *Conn) Recv(deadline time.Time) ([]byte, error) {
	if !deadline.IsZero() && !deadline.After(time.Now()) {
		return nil, ErrTimeout
	}
	if err := c.Conn.SetReadDeadline(deadline); err != nil {
		return nil, errors.Wrap(err, "set read deadline")
	}

	buf := make([]byte, recvChunkSize)
	n, err := c.Conn.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, ErrTimeout
		}
		return nil, errors.Wrap(ErrClosed, err.Error())
	}
	return nil, nil
}

func (c *Conn) Peername() (net.Addr, error) {
	addr := c.Conn.RemoteAddr()
	if addr == nil {
		return nil, errors.New("transport: no remote address")
	}
	return addr, nil
}

func (c *Conn) Close() error {
	return c.Conn.Close()
}

func (c *Conn) Name() string {
	return c.scheme
}

// IsTLS reports whether scheme denotes a TLS-terminated transport, matching
// spec §4.5's "tls-like tag maps to 443" rule.
func IsTLS(scheme string) bool {
	switch scheme {
	case "tls", "https", "ssl":
		return true
	}
	return false
}
