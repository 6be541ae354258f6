package proxyproto

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeader_Format_WriteTo(t *testing.T) {
	h := &Header{
		Version: Version1,
		Command: CMD_PROXY,
		SrcAddr: &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 12345},
		DstAddr: &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 56789},
	}
	raw, err := h.Format()
	require.NoError(t, err)
	require.Equal(t, []byte("PROXY TCP4 127.0.0.1 127.0.0.1 12345 56789\r\n"), raw)

	var buf []byte
	n, err := h.WriteTo(sliceWriter{&buf})
	require.NoError(t, err)
	require.Equal(t, len(raw), n)
	require.Equal(t, raw, buf)
}

func TestAddressFamily_String(t *testing.T) {
	require.Equal(t, "IPv4", AF_INET.String())
	require.Equal(t, "IPv6", AF_INET6.String())
	require.Equal(t, "Unix", AF_UNIX.String())
	require.Equal(t, Unknown, AF_UNSPEC.String())
}

type sliceWriter struct{ buf *[]byte }

func (w sliceWriter) Write(p []byte) (int, error) {
	*w.buf = append(*w.buf, p...)
	return len(p), nil
}
