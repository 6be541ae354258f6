package httpconn

import (
	"time"

	"github.com/corehttp/reqcycle/middleware"
	"github.com/corehttp/reqcycle/proxyproto"
	"github.com/corehttp/reqcycle/transport"
)

// State is spec §3's ConnectionState: it lives for the duration of one
// accepted socket.
type State struct {
	Transport transport.Transport
	Config    *Config
	Pool      *middleware.Pool

	// ReqKeepalive counts requests served on this connection, starting at
	// 1 before the first request begins.
	ReqKeepalive int

	// Until is the absolute deadline for the current read phase; the zero
	// Time means no deadline.
	Until time.Time

	// PeerProxyInfo is set at most once, by the PROXY v1 decode step, and
	// is the explicit-field re-architecture spec §9 asks for in place of
	// the teacher's process-local keyed store.
	PeerProxyInfo *proxyproto.Info

	// buf holds bytes read from the transport that have not yet been
	// consumed by the parser. Re-slicing this on every successful parse
	// step (buf = buf[n:]) is the idiomatic-Go reading of spec §9's "index
	// cursor into a growable buffer": Go slices already alias their
	// backing array, so re-slicing never copies bytes before commit.
	buf []byte

	emptyLines int
}

// New builds a ConnectionState for one freshly accepted transport.
func New(tr transport.Transport, cfg *Config) *State {
	return &State{
		Transport:    tr,
		Config:       cfg,
		Pool:         middleware.NewPool(0),
		ReqKeepalive: 1,
	}
}
