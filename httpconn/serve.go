// Package httpconn is the core of this module: the per-connection
// HTTP/1.x request-line/header parser, keep-alive state machine, and
// middleware executor spec.md describes.
package httpconn

import (
	"github.com/corehttp/reqcycle/middleware"
	"github.com/corehttp/reqcycle/reqres"
	"go.uber.org/zap"
)

// Serve runs the full connection lifecycle spec §2's data flow describes:
// bytes → [PROXY decode?] → request-line → headers → finalize → execute
// middlewares → (loop | close). It owns s.Transport exclusively and
// guarantees Close on every exit path.
func Serve(s *State) {
	defer s.Transport.Close()

	s.refreshDeadline()
	if err := s.decodeProxyPreamble(); err != nil {
		// §4.2 policy: NotProxyProtocol/Malformed abort with no response;
		// a transport failure this early is equally silent.
		return
	}
	// env is this connection's own copy of the configured environment, so
	// entries written for one connection never reach another.
	env := make(middleware.Env, len(s.Config.Env)+1)
	for k, v := range s.Config.Env {
		env[k] = v
	}
	if s.PeerProxyInfo != nil {
		env[middleware.PeerProxyInfoKey] = *s.PeerProxyInfo
	}

	firstRequest := true
	continued := false

	for {
		s.refreshDeadline()

		rl, err := s.readRequestLine()
		if err != nil {
			terminateWithError(s, err)
			return
		}
		if continued {
			// A further request has begun on this connection.
			s.ReqKeepalive++
			continued = false
		}

		headers, err := s.readHeaders()
		if err != nil {
			terminateWithError(s, err)
			return
		}

		req, err := s.finalize(rl, headers, s.buf)
		if err != nil {
			if err == ErrPeerGone {
				return // silent: peer considered gone
			}
			terminateWithError(s, err)
			return
		}

		if firstRequest && s.Config.OnFirstRequest != nil {
			s.Config.OnFirstRequest(req, nil)
			firstRequest = false
		}

		req2, result := middleware.Execute(s.Pool, s.Config.Middlewares, req, env)

		residual, keepGoing := afterExecute(req2, result)
		if !keepGoing {
			return
		}

		s.buf = residual
		s.emptyLines = 0
		continued = true
	}
}

// terminateWithError implements spec §4.8: synthesize a minimal request,
// reply with the mapped status unless the error is silent, then close (the
// deferred Transport.Close in Serve handles the socket).
func terminateWithError(s *State, err error) {
	if Silent(err) {
		return
	}
	status, ok := StatusFor(err)
	if !ok {
		return
	}

	req := reqres.NewRequest(s.Transport, nil, "GET", "", "", "HTTP/1.1", nil, "", 0, nil, false, false, s.Config.OnResponse)
	s.Config.Logger.Debug("terminating connection with error response", zap.Int("status", status), zap.Error(err))
	_ = reqres.Reply(status, req)
}
