package httpconn

import "github.com/corehttp/reqcycle/transport"

// recvOrClassify reads more bytes and turns a transport-level failure into
// the right protocol-level error: a timeout with nothing yet buffered for
// this request is the idle keep-alive wait (silent close per spec §5);
// once any byte of the request has arrived, a timeout is a header-phase
// read timeout (408, spec §4.4 step 6 / §5).
func (s *State) recvOrClassify() error {
	hadData := len(s.buf) > 0
	err := s.recv(s.Until)
	if err == nil {
		return nil
	}
	if err == transport.ErrTimeout {
		if !hadData {
			return ErrSilentAbort
		}
		return ErrReadTimeout
	}
	return ErrTransportClosed
}

// readRequestLine loops parseRequestLine against s.buf, reading more data
// whenever it reports needMore, and advances s.buf past what it consumed.
func (s *State) readRequestLine() (requestLine, error) {
	for {
		rl, consumed, needMore, err := parseRequestLine(s.buf, s.Config.MaxRequestLineLength, s.Config.MaxEmptyLines, &s.emptyLines)
		s.buf = s.buf[consumed:]
		if err != nil {
			return requestLine{}, err
		}
		if !needMore {
			return rl, nil
		}
		if err := s.recvOrClassify(); err != nil {
			return requestLine{}, err
		}
	}
}

// readHeaders loops parseHeaderBlock against s.buf the same way.
func (s *State) readHeaders() ([]headerField, error) {
	var headers []headerField
	for {
		consumed, done, needMore, err := parseHeaderBlock(s.buf, s.Config.MaxHeaderNameLength, s.Config.MaxHeaderValueLength, s.Config.MaxHeaders, &headers)
		s.buf = s.buf[consumed:]
		if err != nil {
			return nil, err
		}
		if done {
			return headers, nil
		}
		if !needMore {
			continue
		}
		if err := s.recvOrClassify(); err != nil {
			if err == ErrSilentAbort {
				// The request line has already arrived, so an empty buffer
				// here is still mid-request: a header-phase timeout.
				return nil, ErrReadTimeout
			}
			return nil, err
		}
	}
}
