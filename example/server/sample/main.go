// This shows the raw loop without a logger or custom middlewares, the
// bare-bones shape the teacher's own sample main had.
package main

import (
	"log"
	"net"

	"github.com/corehttp/reqcycle/httpconn"
	"github.com/corehttp/reqcycle/transport"
)

func main() {
	ln, err := net.Listen("tcp", "127.0.0.1:9090")
	if err != nil {
		log.Fatal(err)
	}

	tln := transport.NewListener(ln, "tcp")
	cfg := httpconn.NewConfig(tln)

	for {
		tr, err := tln.Accept()
		if err != nil {
			log.Println(err)
			continue
		}
		go httpconn.Serve(httpconn.New(tr, cfg))
	}
}
