// This mirrors the teacher's WithPostReadHeader demo, generalized to
// onfirstrequest logging the first request's method, path and host via
// logrus, the dual-logging path SPEC_FULL.md §9 carries alongside zap.
package main

import (
	"log"
	"net"

	"github.com/corehttp/reqcycle/httpconn"
	"github.com/corehttp/reqcycle/reqres"
	"github.com/corehttp/reqcycle/transport"
	"github.com/sirupsen/logrus"
)

func main() {
	ln, err := net.Listen("tcp", "127.0.0.1:9090")
	if err != nil {
		log.Fatal(err)
	}

	tln := transport.NewListener(ln, "tcp")
	cfg := httpconn.NewConfig(tln, httpconn.WithOnFirstRequest(loggingHeader))

	for {
		tr, err := tln.Accept()
		if err != nil {
			log.Println(err)
			continue
		}
		go httpconn.Serve(httpconn.New(tr, cfg))
	}
}

func loggingHeader(req *reqres.Request, err error) {
	if err != nil {
		logrus.WithError(err).Error("failed to finalize first request")
		return
	}
	logrus.WithFields(logrus.Fields{
		"method": req.Method,
		"path":   req.Path,
		"host":   req.Host,
	}).Info("first request on connection")
}
