package httpconn

import "github.com/corehttp/reqcycle/proxyproto"

// decodeProxyPreamble implements spec §4.2. It is a one-shot step run
// before the first request-line parse of a connection: if the connection
// does not open with the literal bytes "PROXY ", nothing is consumed and
// parsing falls through to the request line untouched.
func (s *State) decodeProxyPreamble() error {
	if s.Config.DisableProxyProtocol {
		return nil
	}

	for {
		_, certain := proxyproto.MatchV1Prefix(s.buf)
		if certain {
			break
		}
		if err := s.recv(s.Until); err != nil {
			return err
		}
	}

	matches, _ := proxyproto.MatchV1Prefix(s.buf)
	if !matches {
		return nil
	}

	for {
		info, consumed, complete := proxyproto.DecodeV1Line(s.buf, proxyproto.V1HeaderMaxLength)
		if complete {
			s.buf = s.buf[consumed:]
			switch info.Kind {
			case proxyproto.KindNotProxyProtocol:
				// Fatal per spec §4.2 policy: a "PROXY " prefix that does
				// not resolve to a known variant aborts the connection
				// with no response.
				return ErrNotProxyProtocol
			case proxyproto.KindMalformed:
				// Open question in spec §9 resolved here: a malformed
				// TCP4/TCP6 address or port is treated the same as
				// NotProxyProtocol (silent abort) rather than continuing
				// with partially-trusted peer info.
				return ErrSilentAbort
			default:
				decoded := info
				s.PeerProxyInfo = &decoded
				return nil
			}
		}
		if err := s.recv(s.Until); err != nil {
			return err
		}
	}
}
