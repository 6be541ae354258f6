package reqres

import (
	"fmt"
	"io"
)

// Response tracks whether a reply has been sent for a Request, and writes
// minimal status-line responses over the request's transport. Full response
// serialization (bodies, arbitrary headers) is out of scope for this
// package: callers needing that build on top of reply's written bytes.
type Response struct {
	req  *Request
	sent bool
	// Status is the status code of the last reply written, 0 if none.
	Status int
}

var statusText = map[int]string{
	200: "OK",
	204: "No Content",
	400: "Bad Request",
	404: "Not Found",
	408: "Request Timeout",
	414: "URI Too Long",
	500: "Internal Server Error",
	505: "HTTP Version Not Supported",
}

// StatusText returns the reason phrase for code, or "Unknown" if code is
// not one this package knows how to name.
func StatusText(code int) string {
	if t, ok := statusText[code]; ok {
		return t
	}
	return "Unknown"
}

// NewResponse attaches a Response tracker to req and registers it so
// EnsureResponse/Reply observe the same instance.
func NewResponse(req *Request) *Response {
	r := &Response{req: req}
	req.resp = r
	return r
}

// Sent reports whether Reply has already written a status line for req.
func (r *Response) Sent() bool {
	return r.sent
}

// Reply writes a minimal "<version> <status> <reason>\r\nConnection:
// ...\r\nContent-Length: 0\r\n\r\n" response over the request's transport,
// then invokes
// OnResponse if the caller registered one, matching the
// on_response-callback field in ConnectionState.
func (r *Response) Reply(status int, req *Request) error {
	disposition := "keep-alive"
	if req.Connection() == ConnectionClose || !req.KeepAliveAllowed {
		disposition = "close"
	}
	line := fmt.Sprintf("%s %d %s\r\nConnection: %s\r\nContent-Length: 0\r\n\r\n",
		req.Version, status, StatusText(status), disposition)

	// Transport (spec §6) only guarantees recv/peername/close/name; writing
	// is a capability of the broader out-of-scope transport abstraction, so
	// it is consumed here as an optional io.Writer.
	if w, ok := req.Transport.(io.Writer); ok {
		if _, err := w.Write([]byte(line)); err != nil {
			return err
		}
	}

	r.sent = true
	r.Status = status
	if req.OnResponse != nil {
		req.OnResponse(r)
	}
	return nil
}

// EnsureResponse synthesizes defaultStatus if no reply has been sent yet,
// matching spec §4.7 step 1: "Ensure a response has been sent; if not,
// synthesize 204 No Content."
func EnsureResponse(req *Request, defaultStatus int) error {
	if req.resp == nil {
		NewResponse(req)
	}
	if req.resp.Sent() {
		return nil
	}
	return req.resp.Reply(defaultStatus, req)
}

// Reply is the package-level convenience matching spec §6's
// reply(status, req) signature.
func Reply(status int, req *Request) error {
	if req.resp == nil {
		NewResponse(req)
	}
	return req.resp.Reply(status, req)
}
