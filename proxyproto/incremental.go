package proxyproto

import (
	"bytes"
	"net"
	"strings"
)

// Kind is the outcome of a PROXY protocol v1 preamble decode attempt.
type Kind byte

const (
	KindIPv4 Kind = iota
	KindIPv6
	KindUnknownPeer
	KindNotProxyProtocol
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindIPv4:
		return "ipv4"
	case KindIPv6:
		return "ipv6"
	case KindUnknownPeer:
		return "unknown-peer"
	case KindNotProxyProtocol:
		return "not-proxy-protocol"
	case KindMalformed:
		return "malformed"
	}
	return Unknown
}

// Info is the decoded result of a PROXY protocol v1 preamble, shaped after
// the ConnectionState.peer_proxy_info variant: {Ipv4|Ipv6, src, dst,
// src-port, dst-port} | UnknownPeer | NotProxyProtocol | Malformed.
type Info struct {
	Kind    Kind
	SrcAddr net.IP
	DstAddr net.IP
	SrcPort int
	DstPort int
}

// V1Prefix is the exact byte sequence that must open a connection for the
// PROXY protocol v1 decoder to trigger at all.
var V1Prefix = v1Prefix

// V1HeaderMaxLength is the worst-case length of a PROXY v1 preamble line,
// exported for callers decoding incrementally against their own buffer.
const V1HeaderMaxLength = v1HeaderMaxLength

// MatchV1Prefix reports whether buf's leading bytes match "PROXY " exactly.
// certain is false when buf is shorter than the prefix and everything seen
// so far agrees with it — the caller must read more before deciding.
func MatchV1Prefix(buf []byte) (matches, certain bool) {
	n := len(v1Prefix)
	if len(buf) >= n {
		return bytes.Equal(buf[:n], v1Prefix), true
	}
	matches = bytes.Equal(buf, v1Prefix[:len(buf)])
	return matches, !matches
}

// DecodeV1Line decodes the PROXY v1 preamble line out of buf, which must
// already be known to start with "PROXY " (see MatchV1Prefix). It scans for
// the first CRLF incrementally, tolerating arbitrary fragmentation: if the
// terminator has not arrived yet and buf has not exceeded maxLen, complete
// is false and the caller should read more bytes and retry from offset 0.
//
// If the line exceeds maxLen before a CRLF is found, decoding gives up and
// reports a Malformed result with consumed=0 so the caller can abort instead
// of buffering an unbounded preamble.
func DecodeV1Line(buf []byte, maxLen int) (info Info, consumed int, complete bool) {
	idx := bytes.Index(buf, []byte("\r\n"))
	if idx == -1 {
		if len(buf) > maxLen {
			return Info{Kind: KindMalformed}, 0, true
		}
		return Info{}, 0, false
	}

	line := buf[:idx]
	consumed = idx + 2

	fields := strings.Fields(string(line))
	if len(fields) < 2 {
		return Info{Kind: KindMalformed}, consumed, true
	}

	switch fields[1] {
	case "TCP4":
		info, err := decodeTCPFields(fields, AF_INET, KindIPv4)
		if err != nil {
			return Info{Kind: KindMalformed}, consumed, true
		}
		return info, consumed, true
	case "TCP6":
		info, err := decodeTCPFields(fields, AF_INET6, KindIPv6)
		if err != nil {
			return Info{Kind: KindMalformed}, consumed, true
		}
		return info, consumed, true
	case "UNKNOWN":
		return Info{Kind: KindUnknownPeer}, consumed, true
	default:
		return Info{Kind: KindNotProxyProtocol}, consumed, true
	}
}

func decodeTCPFields(fields []string, af AddressFamily, kind Kind) (Info, error) {
	if len(fields) < 6 {
		return Info{}, ErrNotFoundAddressOrPort
	}
	srcIP, dstIP, err := parseAndValidateIP(fields[2], fields[3], af)
	if err != nil {
		return Info{}, err
	}
	srcPort, dstPort, err := parseAndValidatePort(fields[4], fields[5])
	if err != nil {
		return Info{}, err
	}
	return Info{Kind: kind, SrcAddr: srcIP, DstAddr: dstIP, SrcPort: srcPort, DstPort: dstPort}, nil
}
