// Command tcplistener prints every request it receives as the gateway would
// parse it, then answers with an empty 200.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"

	"github.com/Brownie44l1/boardgate/internal/request"
	"github.com/Brownie44l1/boardgate/internal/response"
	"github.com/Brownie44l1/boardgate/internal/router"
	"github.com/Brownie44l1/boardgate/internal/server"
)

func main() {
	port := flag.Int("p", 42069, "port to listen on")
	flag.Parse()

	listener, err := net.Listen("tcp", ":"+strconv.Itoa(*port))
	if err != nil {
		fmt.Fprintln(os.Stderr, "listen:", err)
		os.Exit(1)
	}
	defer listener.Close()
	fmt.Printf("Listening on port %d...\n", *port)

	for {
		conn, err := listener.Accept()
		if err != nil {
			fmt.Println("Accept error:", err)
			continue
		}

		handleConnection(conn, os.Stdout)
	}
}

func handleConnection(conn net.Conn, out io.Writer) {
	defer conn.Close()

	cfg := server.DefaultConfig()
	reader := bufio.NewReader(conn)

	raw, err := request.ReadHeader(reader, cfg.MaxHeaderBytes)
	if err != nil {
		fmt.Fprintln(out, "read header:", err)
		return
	}

	req, err := request.Parse(raw)
	if err != nil {
		fmt.Fprintln(out, "parse:", err)
		conn.Write(response.Format(request.Version11.String(), response.StatusBadRequest, request.MediaHTML.String(), ""))
		return
	}
	if err := req.ReadBody(reader, cfg.MaxBodyBytes); err != nil {
		fmt.Fprintln(out, "read body:", err)
	}

	for _, ignored := range req.Ignored {
		fmt.Fprintln(out, "ignored:", ignored)
	}
	dump(out, req)
	conn.Write(response.Format(req.Version.ResponseString(), response.StatusOK, router.FamilyOf(req.Accept).MediaType().String(), ""))
}

func dump(out io.Writer, req *request.Request) {
	fmt.Fprintln(out, "Request Line")
	fmt.Fprintf(out, "Method: %s\n", req.Method)
	fmt.Fprintf(out, "Path: %s\n", req.Path)
	fmt.Fprintf(out, "Version: %s\n", req.Version)
	fmt.Fprintf(out, "Accept: %s\n", req.Accept)
	fmt.Fprintf(out, "Content-Type: %s\n", req.ContentType)
	fmt.Fprintf(out, "Content-Length: %d\n", req.ContentLength)

	fmt.Fprintf(out, "Headers (%d)\n", req.Headers.Len())
	for _, name := range req.Headers.Names() {
		for _, value := range req.Headers.GetAll(name) {
			fmt.Fprintf(out, "%s: %s\n", name, value)
		}
	}
	fmt.Fprintln(out, "Body")
	fmt.Fprintf(out, "%s\n", req.Body)
}
