// This dials a reqcycle listener the way an upstream load balancer would: a
// PROXY v1 preamble first, then a plain HTTP/1.1 request line. The decode
// step in httpconn only recognizes the v1 text form on input (SPEC_FULL.md
// §10 keeps v2 as an output-only path via middleware.ForwardProxyHeader), so
// this sends v1, not the teacher's original v2 demo.
package main

import (
	"log"
	"net"
	"time"
)

func main() {
	conn, err := net.DialTimeout("tcp", "127.0.0.1:9090", time.Second*5)
	if err != nil {
		log.Println("err:", err)
		return
	}
	defer conn.Close()

	preamble := "PROXY TCP4 127.0.0.1 127.0.0.1 12345 56789\r\n"
	if _, err := conn.Write([]byte(preamble)); err != nil {
		log.Println("write PROXY header to connection fail:", err)
		return
	}

	request := "GET / HTTP/1.1\r\nHost: example.com\r\nConnection: close\r\n\r\n"
	if _, err := conn.Write([]byte(request)); err != nil {
		log.Println("write request fail:", err)
	}
}
