package httpconn

import (
	"strconv"
	"strings"

	"github.com/corehttp/reqcycle/reqres"
	"github.com/corehttp/reqcycle/transport"
)

// parsePort parses a port string per spec §9: every byte must be an ASCII
// digit, rejecting the leading '+'/'-' strconv.Atoi would otherwise accept.
func parsePort(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return 0, false
		}
	}
	p, err := strconv.Atoi(raw)
	if err != nil || p > 65535 {
		return 0, false
	}
	return p, true
}

func defaultPort(tr transport.Transport) int {
	if transport.IsTLS(tr.Name()) {
		return 443
	}
	return 80
}

// resolveHostPort implements spec §4.5's host/port resolution.
func resolveHostPort(headers []headerField, version string, tr transport.Transport) (host string, port int, err error) {
	var hostHeader string
	found := false
	for _, h := range headers {
		if h.name == "host" {
			hostHeader = h.value
			found = true
			break
		}
	}

	if !found {
		if version == "HTTP/1.1" {
			return "", 0, ErrMissingHost
		}
		return "", defaultPort(tr), nil
	}

	return parseHostHeader(hostHeader, tr)
}

func parseHostHeader(raw string, tr transport.Transport) (host string, port int, err error) {
	if raw == "" {
		return "", defaultPort(tr), nil
	}

	if raw[0] == '[' {
		end := strings.IndexByte(raw, ']')
		if end == -1 {
			return "", 0, ErrMalformedHost
		}
		host = strings.ToLower(raw[1:end])
		rest := raw[end+1:]
		if rest == "" {
			return host, defaultPort(tr), nil
		}
		if rest[0] != ':' {
			return "", 0, ErrMalformedHost
		}
		p, ok := parsePort(rest[1:])
		if !ok {
			return "", 0, ErrMalformedHost
		}
		return host, p, nil
	}

	colonIdx := strings.IndexByte(raw, ':')
	if colonIdx == -1 {
		return strings.ToLower(raw), defaultPort(tr), nil
	}
	host = strings.ToLower(raw[:colonIdx])
	p, ok := parsePort(raw[colonIdx+1:])
	if !ok {
		return "", 0, ErrMalformedHost
	}
	return host, p, nil
}

// finalize implements spec §4.5: resolve host/port, capture the peer
// address, and build the Request object handed to the middleware chain.
func (s *State) finalize(rl requestLine, headers []headerField, residual []byte) (*reqres.Request, error) {
	host, port, err := resolveHostPort(headers, rl.version, s.Transport)
	if err != nil {
		return nil, err
	}

	peer, err := s.Transport.Peername()
	if err != nil {
		return nil, ErrPeerGone
	}

	reqHeaders := make(reqres.Headers, 0, len(headers))
	for _, h := range headers {
		reqHeaders = append(reqHeaders, reqres.Header{Name: h.name, Value: h.value})
	}

	keepAliveAllowed := s.ReqKeepalive < s.Config.MaxKeepalive

	req := reqres.NewRequest(
		s.Transport,
		peer,
		string(rl.method),
		rl.path,
		rl.query,
		rl.version,
		reqHeaders,
		host,
		port,
		residual,
		keepAliveAllowed,
		s.Config.Compress,
		s.Config.OnResponse,
	)
	return req, nil
}
