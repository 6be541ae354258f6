// Package reqres is the minimal Request/response capability spec.md §6
// defers to an external collaborator: request object construction and
// response serialization. It is intentionally thin — the parsing and
// connection-state machinery that calls into it lives in httpconn.
package reqres

import (
	"net"

	"github.com/corehttp/reqcycle/transport"
)

// Header is one name/value pair, name already ASCII-lower-cased, value
// right-trimmed of SP/HTAB, in the order it appeared on the wire.
type Header struct {
	Name  string
	Value string
}

// Headers is an ordered header list with lookup helpers, grounded on
// Fepozopo-httpfromtcp's header collection shape but kept ordered (a bare
// map would lose repeated headers and wire order).
type Headers []Header

// Get returns the value of the first header named name (already expected
// lower-case), and whether it was present.
func (h Headers) Get(name string) (string, bool) {
	for _, hdr := range h {
		if hdr.Name == name {
			return hdr.Value, true
		}
	}
	return "", false
}

// Count returns how many headers are named name.
func (h Headers) Count(name string) int {
	n := 0
	for _, hdr := range h {
		if hdr.Name == name {
			n++
		}
	}
	return n
}

// ConnectionDisposition is the parsed intent of the Connection header.
type ConnectionDisposition int

const (
	ConnectionKeepAlive ConnectionDisposition = iota
	ConnectionClose
)

// Request is the finalized ParsedRequest handed to the middleware chain.
type Request struct {
	Transport transport.Transport
	Peer      net.Addr

	Method  string
	Path    string
	Query   string
	Version string // "HTTP/1.1" or "HTTP/1.0"
	Headers Headers

	Host string
	Port int

	// Buffer is the residual bytes read past the header terminator,
	// carried forward into the body phase / next request.
	Buffer []byte

	KeepAliveAllowed bool
	Compress         bool
	OnResponse       func(*Response)

	resp *Response
}

// NewRequest constructs a finalized Request, matching spec §6's constructor
// signature (socket/transport, peer, method, path, query, version, headers,
// host, port, buffer, keep_alive_allowed, compress, on_response). "socket"
// itself is not a separate field here: Transport already owns it.
func NewRequest(
	tr transport.Transport,
	peer net.Addr,
	method, path, query, version string,
	headers Headers,
	host string, port int,
	buffer []byte,
	keepAliveAllowed, compress bool,
	onResponse func(*Response),
) *Request {
	return &Request{
		Transport:        tr,
		Peer:             peer,
		Method:           method,
		Path:             path,
		Query:            query,
		Version:          version,
		Headers:          headers,
		Host:             host,
		Port:             port,
		Buffer:           buffer,
		KeepAliveAllowed: keepAliveAllowed,
		Compress:         compress,
		OnResponse:       onResponse,
	}
}

// Connection reports the caller's Connection-header disposition. It is
// always close when KeepAliveAllowed is false; otherwise an explicit
// Connection header decides, and without one HTTP/1.0 defaults to close and
// HTTP/1.1 to keep-alive.
func (r *Request) Connection() ConnectionDisposition {
	if !r.KeepAliveAllowed {
		return ConnectionClose
	}
	if v, ok := r.Headers.Get("connection"); ok {
		switch lowerASCII(v) {
		case "close":
			return ConnectionClose
		case "keep-alive":
			return ConnectionKeepAlive
		}
	}
	if r.Version == "HTTP/1.0" {
		return ConnectionClose
	}
	return ConnectionKeepAlive
}

// Body drains the request body from the residual buffer. Since body
// transfer-coding is out of scope here, this only recovers a clean residual
// buffer when there is no declared body (no Content-Length / no chunked
// transfer): the common case for the middlewares this pipeline calls into.
// Any other case reports ok=false so the keep-alive loop marks the
// connection for close rather than guessing at framing it does not own.
func (r *Request) Body() (ok bool, body []byte, rest []byte) {
	if _, has := r.Headers.Get("content-length"); has {
		return false, nil, nil
	}
	if _, has := r.Headers.Get("transfer-encoding"); has {
		return false, nil, nil
	}
	return true, nil, r.Buffer
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
