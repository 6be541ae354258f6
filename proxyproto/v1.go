package proxyproto

import "github.com/pkg/errors"

const (
	// worst case (optional fields set to 0xff):
	// "PROXY UNKNOWN ffff:f...f:ffff ffff:f...f:ffff 65535 65535\r\n"
	// => 5 + 1 + 7 + 1 + 39 + 1 + 39 + 1 + 5 + 1 + 5 + 2 = 107 chars
	v1HeaderMaxLength = 107
)

// ErrNotFoundAddressOrPort is returned by the incremental v1 decoder
// (decodeTCPFields) when a TCP4/TCP6 line has fewer than the six fields
// a proxied line requires.
var ErrNotFoundAddressOrPort = errors.New("pp1 header not found address or port")
