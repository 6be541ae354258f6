package httpconn

import (
	"strconv"
	"strings"
	"testing"

	"github.com/corehttp/reqcycle/middleware"
	"github.com/corehttp/reqcycle/reqres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHandler captures every finalized Request the chain reaches, the
// terminal link in a minimal [router, handler] chain.
type recordingHandler struct {
	seen []*reqres.Request
}

func (r *recordingHandler) Name() string { return "recording-handler" }

func (r *recordingHandler) Execute(req *reqres.Request, env middleware.Env) middleware.Outcome {
	r.seen = append(r.seen, req)
	env[middleware.DefaultResultKey] = "ok"
	return middleware.Stop(req, env)
}

func newTestConfig(h *recordingHandler, opts ...Option) *Config {
	base := []Option{
		WithMiddlewares(middleware.NewRouter(nil), h),
		WithDisableProxyProtocol(true),
	}
	cfg := DefaultConfig()
	for _, o := range append(base, opts...) {
		o(cfg)
	}
	return cfg
}

func runServe(t *testing.T, data []byte, chunkSize int, cfg *Config) *fakeTransport {
	t.Helper()
	ft := newFakeTransport(data, chunkSize)
	s := New(ft, cfg)
	Serve(s)
	return ft
}

func statusOf(t *testing.T, written string) int {
	t.Helper()
	parts := strings.SplitN(written, " ", 3)
	require.GreaterOrEqual(t, len(parts), 2, "expected a status line, got %q", written)
	code, err := strconv.Atoi(parts[1])
	require.NoError(t, err)
	return code
}

func TestServe_MinimalGET11(t *testing.T) {
	h := &recordingHandler{}
	cfg := newTestConfig(h)
	data := []byte("GET /x HTTP/1.1\r\nHost: h\r\n\r\n")
	runServe(t, data, 0, cfg)

	require.Len(t, h.seen, 1)
	req := h.seen[0]
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "/x", req.Path)
	assert.Equal(t, "", req.Query)
	assert.Equal(t, "HTTP/1.1", req.Version)
	assert.Equal(t, "h", req.Host)
	assert.Equal(t, 80, req.Port)
	val, ok := req.Headers.Get("host")
	require.True(t, ok)
	assert.Equal(t, "h", val)
}

func TestServe_MinimalGET11_Fragmented(t *testing.T) {
	h := &recordingHandler{}
	cfg := newTestConfig(h)
	data := []byte("GET /x HTTP/1.1\r\nHost: h\r\n\r\n")
	runServe(t, data, 1, cfg)

	require.Len(t, h.seen, 1)
	req := h.seen[0]
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "/x", req.Path)
	assert.Equal(t, "HTTP/1.1", req.Version)
	assert.Equal(t, "h", req.Host)
}

func TestServe_EmptyPreambleLines_WithinLimit(t *testing.T) {
	h := &recordingHandler{}
	cfg := newTestConfig(h, WithMaxEmptyLines(5))
	data := []byte("\r\n\r\nGET / HTTP/1.0\r\n\r\n")
	runServe(t, data, 0, cfg)

	require.Len(t, h.seen, 1)
	assert.Equal(t, "GET", h.seen[0].Method)
	assert.Equal(t, "/", h.seen[0].Path)
	assert.Equal(t, "HTTP/1.0", h.seen[0].Version)
}

func TestServe_EmptyPreambleLines_OverLimit(t *testing.T) {
	h := &recordingHandler{}
	cfg := newTestConfig(h, WithMaxEmptyLines(5))
	data := []byte(strings.Repeat("\r\n", 6) + "GET / HTTP/1.0\r\n\r\n")
	ft := runServe(t, data, 0, cfg)

	assert.Empty(t, h.seen)
	assert.Equal(t, 400, statusOf(t, ft.written.String()))
}

func TestServe_AbsoluteURISkip(t *testing.T) {
	h := &recordingHandler{}
	cfg := newTestConfig(h)
	data := []byte("GET http://h.example/p?q HTTP/1.1\r\nHost: h.example\r\n\r\n")
	runServe(t, data, 0, cfg)

	require.Len(t, h.seen, 1)
	req := h.seen[0]
	assert.Equal(t, "/p", req.Path)
	assert.Equal(t, "q", req.Query)
	assert.Equal(t, "h.example", req.Host)
}

func TestServe_ObsFold(t *testing.T) {
	h := &recordingHandler{}
	cfg := newTestConfig(h)
	data := []byte("GET / HTTP/1.1\r\nHost: h\r\nX-Y: a\r\n\tb\r\n\r\n")
	runServe(t, data, 0, cfg)

	require.Len(t, h.seen, 1)
	val, ok := h.seen[0].Headers.Get("x-y")
	require.True(t, ok)
	assert.Equal(t, "a\tb", val)
}

func TestServe_TrailingWhitespaceTrim(t *testing.T) {
	h := &recordingHandler{}
	cfg := newTestConfig(h)
	data := []byte("GET / HTTP/1.1\r\nHost: h\r\nAccept: text/*   \t  \r\n\r\n")
	runServe(t, data, 0, cfg)

	require.Len(t, h.seen, 1)
	val, ok := h.seen[0].Headers.Get("accept")
	require.True(t, ok)
	assert.Equal(t, "text/*", val)
}

func TestServe_TooManyHeaders(t *testing.T) {
	h := &recordingHandler{}
	cfg := newTestConfig(h, WithMaxHeaders(2))
	data := []byte("GET / HTTP/1.1\r\nHost: h\r\nA: 1\r\nB: 2\r\n\r\n")
	ft := runServe(t, data, 0, cfg)

	assert.Empty(t, h.seen)
	assert.Equal(t, 400, statusOf(t, ft.written.String()))
	assert.True(t, ft.closed)
}

func TestServe_ProxyV1ThenHTTP(t *testing.T) {
	h := &recordingHandler{}
	cfg := newTestConfig(h, WithDisableProxyProtocol(false))
	data := []byte("PROXY TCP4 1.2.3.4 5.6.7.8 1111 80\r\nGET / HTTP/1.1\r\nHost: h\r\n\r\n")
	ft := newFakeTransport(data, 0)
	s := New(ft, cfg)
	Serve(s)

	require.Len(t, h.seen, 1)
	require.NotNil(t, s.PeerProxyInfo)
	assert.Equal(t, "1.2.3.4", s.PeerProxyInfo.SrcAddr.String())
	assert.Equal(t, "5.6.7.8", s.PeerProxyInfo.DstAddr.String())
	assert.Equal(t, 1111, s.PeerProxyInfo.SrcPort)
	assert.Equal(t, 80, s.PeerProxyInfo.DstPort)
}

func TestServe_BadProxy(t *testing.T) {
	h := &recordingHandler{}
	cfg := newTestConfig(h, WithDisableProxyProtocol(false))
	data := []byte("PROXY GARBAGE\r\n")
	ft := runServe(t, data, 0, cfg)

	assert.Empty(t, h.seen)
	assert.Empty(t, ft.written.String(), "bad PROXY preamble must produce no response")
	assert.True(t, ft.closed)
}

func TestServe_UnsupportedVersion(t *testing.T) {
	h := &recordingHandler{}
	cfg := newTestConfig(h)
	data := []byte("GET / HTTP/2.0\r\n\r\n")
	ft := runServe(t, data, 0, cfg)

	assert.Empty(t, h.seen)
	assert.Equal(t, 505, statusOf(t, ft.written.String()))
}

func TestServe_KeepAliveLoop(t *testing.T) {
	h := &recordingHandler{}
	cfg := newTestConfig(h, WithMaxKeepalive(100))
	data := []byte("GET /a HTTP/1.1\r\nHost: h\r\n\r\nGET /b HTTP/1.1\r\nHost: h\r\n\r\n")
	ft := newFakeTransport(data, 0)
	s := New(ft, cfg)
	Serve(s)

	require.Len(t, h.seen, 2)
	assert.Equal(t, "/a", h.seen[0].Path)
	assert.Equal(t, "/b", h.seen[1].Path)
	assert.True(t, h.seen[0].KeepAliveAllowed)
	assert.Equal(t, 2, s.ReqKeepalive)
}

func TestServe_KeepaliveExhausted_ClosesAfterLimit(t *testing.T) {
	h := &recordingHandler{}
	cfg := newTestConfig(h, WithMaxKeepalive(1))
	data := []byte("GET /a HTTP/1.1\r\nHost: h\r\n\r\nGET /b HTTP/1.1\r\nHost: h\r\n\r\n")
	ft := newFakeTransport(data, 0)
	s := New(ft, cfg)
	Serve(s)

	// The first request is served with keep_alive_allowed=false (1 < 1 is
	// false), so the connection closes after it per spec §4.7's Connection
	// disposition check; the second pipelined request is never reached.
	require.Len(t, h.seen, 1)
	assert.False(t, h.seen[0].KeepAliveAllowed)
}
