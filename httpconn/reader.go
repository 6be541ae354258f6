package httpconn

import (
	"time"

	"github.com/corehttp/reqcycle/transport"
)

// recv implements spec §4.1: if until is the zero Time, wait forever;
// otherwise fail Timeout without calling the transport once the deadline
// has already passed. Bytes read are appended to the residual buffer.
func (s *State) recv(until time.Time) error {
	if !until.IsZero() && !until.After(time.Now()) {
		return transport.ErrTimeout
	}
	chunk, err := s.Transport.Recv(until)
	if err != nil {
		return err
	}
	if len(chunk) == 0 {
		return transport.ErrClosed
	}
	s.buf = append(s.buf, chunk...)
	return nil
}

// refreshDeadline recomputes Until from Config.Timeout, spec §3's "until is
// recomputed at the start of every new request and whenever a new read
// phase begins".
func (s *State) refreshDeadline() {
	if s.Config.Timeout <= 0 {
		s.Until = time.Time{}
		return
	}
	s.Until = time.Now().Add(s.Config.Timeout)
}
