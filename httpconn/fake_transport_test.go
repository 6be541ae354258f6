package httpconn

import (
	"bytes"
	"net"
	"time"

	"github.com/corehttp/reqcycle/transport"
)

// fakeTransport feeds a fixed byte stream to the parser in caller-chosen
// chunks, simulating arbitrary TCP fragmentation, and records everything
// written back to it (so tests can assert on the synthesized response
// lines). Once the input is exhausted, Recv reports transport.ErrTimeout,
// the same signal a real idle connection produces.
type fakeTransport struct {
	chunks  [][]byte
	pos     int
	written bytes.Buffer
	closed  bool
	peer    net.Addr
}

// newFakeTransport splits data into chunkSize-sized pieces (or one chunk
// if chunkSize <= 0), so tests can exercise both "all at once" and
// "byte by byte" fragmentation against the same parser.
func newFakeTransport(data []byte, chunkSize int) *fakeTransport {
	ft := &fakeTransport{peer: &net.TCPAddr{IP: net.IPv4(10, 0, 0, 1), Port: 4000}}
	if chunkSize <= 0 {
		ft.chunks = [][]byte{data}
		return ft
	}
	for len(data) > 0 {
		n := chunkSize
		if n > len(data) {
			n = len(data)
		}
		ft.chunks = append(ft.chunks, data[:n])
		data = data[n:]
	}
	return ft
}

func (f *fakeTransport) Recv(deadline time.Time) ([]byte, error) {
	if f.pos >= len(f.chunks) {
		return nil, transport.ErrTimeout
	}
	c := f.chunks[f.pos]
	f.pos++
	return c, nil
}

func (f *fakeTransport) Peername() (net.Addr, error) {
	if f.peer == nil {
		return nil, transport.ErrClosed
	}
	return f.peer, nil
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

func (f *fakeTransport) Name() string { return "tcp" }

func (f *fakeTransport) Write(p []byte) (int, error) {
	return f.written.Write(p)
}

var _ transport.Transport = (*fakeTransport)(nil)
