// This demonstrates the bare minimum wiring: a transport.Listener feeding
// httpconn.Serve with an all-default Config, no PROXY protocol involved.
package main

import (
	"net"

	"github.com/corehttp/reqcycle/httpconn"
	"github.com/corehttp/reqcycle/transport"
	"go.uber.org/zap"
)

var addr = "127.0.0.1:9090"

func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatal("listen", zap.Error(err))
	}

	tln := transport.NewListener(ln, "tcp")
	cfg := httpconn.NewConfig(tln, httpconn.WithLogger(logger), httpconn.WithDisableProxyProtocol(true))

	for {
		tr, err := tln.Accept()
		if err != nil {
			logger.Warn("accept", zap.Error(err))
			continue
		}
		go httpconn.Serve(httpconn.New(tr, cfg))
	}
}
