package middleware

import (
	"net"

	"github.com/corehttp/reqcycle/proxyproto"
	"github.com/corehttp/reqcycle/reqres"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

// PeerProxyInfoKey is the env key httpconn stores the decoded PROXY v1
// result under, spec §9's re-architecture of the teacher's process-local
// PROXY-info store into an explicit field/env entry.
const PeerProxyInfoKey = "peer_proxy_info"

// ForwardProxyHeaderKey is the env key ForwardProxyHeader stores its
// formatted preamble bytes under, for a downstream reverse-proxy dial step
// to prepend onto the outbound connection.
const ForwardProxyHeaderKey = "forwarded_proxy_header"

// ForwardProxyHeader is a supplemental middleware (SPEC_FULL §10): it
// re-encodes the PROXY v1 info this pipeline decoded into an outbound PROXY
// header (v1 or, with UseV2/checksum, v2), using the teacher's
// client_side.go formatting code, for handlers that themselves proxy the
// request further upstream.
type ForwardProxyHeader struct {
	UseV2      bool
	WithCRC32c bool

	// Log receives the formatted header's ZapFields when set. When nil and
	// UseLogrus is true, the teacher's LogrusFields() is used instead, the
	// same dual-logging choice the teacher's own example mains made.
	Log       *zap.Logger
	UseLogrus bool
}

func NewForwardProxyHeader(useV2, withChecksum bool) *ForwardProxyHeader {
	return &ForwardProxyHeader{UseV2: useV2, WithCRC32c: withChecksum}
}

func (f *ForwardProxyHeader) Name() string { return "forward-proxy-header" }

func (f *ForwardProxyHeader) Execute(req *reqres.Request, env Env) Outcome {
	raw, ok := env[PeerProxyInfoKey]
	if !ok {
		return Next(req, env)
	}
	info, ok := raw.(proxyproto.Info)
	if !ok || (info.Kind != proxyproto.KindIPv4 && info.Kind != proxyproto.KindIPv6) {
		return Next(req, env)
	}

	h := &proxyproto.Header{
		Version:           proxyproto.Version1,
		Command:           proxyproto.CMD_PROXY,
		TransportProtocol: proxyproto.SOCK_STREAM,
		SrcAddr:           &net.TCPAddr{IP: info.SrcAddr, Port: info.SrcPort},
		DstAddr:           &net.TCPAddr{IP: info.DstAddr, Port: info.DstPort},
	}
	if f.UseV2 {
		h.Version = proxyproto.Version2
	}

	var (
		formatted []byte
		err       error
	)
	if f.WithCRC32c {
		formatted, err = h.FormatWithChecksum()
	} else {
		formatted, err = h.Format()
	}
	if err == nil {
		env[ForwardProxyHeaderKey] = formatted
		switch {
		case f.Log != nil:
			f.Log.Debug("formatted outbound proxy header", h.ZapFields()...)
		case f.UseLogrus:
			logrus.WithFields(h.LogrusFields()).Debug("formatted outbound proxy header")
		}
	}
	return Next(req, env)
}
