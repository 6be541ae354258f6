package httpconn

import "github.com/corehttp/reqcycle/reqres"

// afterExecute implements spec §4.7: ensure a response was sent, inspect
// the Connection disposition, try to recover a clean residual buffer by
// draining the body, and decide whether to loop for the next keep-alive
// request or terminate.
func afterExecute(req *reqres.Request, result string) (residual []byte, shouldContinue bool) {
	if err := reqres.EnsureResponse(req, 204); err != nil {
		return nil, false
	}

	if req.Connection() == reqres.ConnectionClose {
		return nil, false
	}

	ok, _, rest := req.Body()
	if !ok {
		// Body too large/unreadable to safely drain: mark buffer "close"
		// per spec §4.7 step 3 and terminate.
		return nil, false
	}

	if result != "ok" {
		return nil, false
	}
	return rest, true
}
