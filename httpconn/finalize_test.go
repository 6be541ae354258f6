package httpconn

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePort(t *testing.T) {
	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{raw: "80", want: 80, wantOK: true},
		{raw: "65535", want: 65535, wantOK: true},
		{raw: "0", want: 0, wantOK: true},
		{raw: "+80", wantOK: false},
		{raw: "-5", wantOK: false},
		{raw: "8o", wantOK: false},
		{raw: "", wantOK: false},
		{raw: "65536", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := parsePort(tt.raw)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				require.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseHostHeader(t *testing.T) {
	ft := newFakeTransport(nil, 0)

	host, port, err := parseHostHeader("example.com:+80", ft)
	require.ErrorIs(t, err, ErrMalformedHost)

	host, port, err = parseHostHeader("example.com:8080", ft)
	require.NoError(t, err)
	require.Equal(t, "example.com", host)
	require.Equal(t, 8080, port)

	host, port, err = parseHostHeader("[::1]:-1", ft)
	require.ErrorIs(t, err, ErrMalformedHost)

	host, port, err = parseHostHeader("[::1]:443", ft)
	require.NoError(t, err)
	require.Equal(t, "::1", host)
	require.Equal(t, 443, port)
}
