package transport

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConn_RecvRoundTrip(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		client.Write([]byte("hello"))
	}()

	c := NewConn(server, "tcp")
	data, err := c.Recv(time.Now().Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestConn_RecvPastDeadlineTimesOut(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	defer server.Close()

	c := NewConn(server, "tcp")
	_, err := c.Recv(time.Now().Add(-time.Second))
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestIsTLS(t *testing.T) {
	assert.True(t, IsTLS("tls"))
	assert.True(t, IsTLS("https"))
	assert.False(t, IsTLS("tcp"))
}
