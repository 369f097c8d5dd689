// Package sockit provides a unified, ergonomic abstraction over the
// POSIX/Winsock BSD socket API.
//
// ## WHY THIS PACKAGE EXISTS
//
// Go's net package already wraps sockets, but it hides the descriptor-level
// control some callers need: picking the wire family explicitly, learning
// the ephemeral port a bind to port 0 was given, framing an
// unframed TCP stream with delimiter or fixed-count reads instead of
// rolling a bufio.Reader at every call site, and sending a UDP datagram
// from a throwaway descriptor so a bound receive socket's family never
// constrains who it can talk to. sockit exposes three endpoint types built
// directly on that descriptor-level control:
//
//   - TCPSocket: a connection-oriented byte-stream client.
//   - UDPSocket: a connectionless datagram endpoint.
//   - TCPServer: a listening endpoint that accepts incoming TCP connections.
//
// All three transparently support IPv4 and IPv6 and resolve hostnames to
// concrete address candidates via Resolve.
//
// ## SCOPE
//
// This package does not implement an event loop, asynchronous completion,
// TLS, HTTP or any other application protocol, connection pooling,
// broadcast/multicast helpers beyond what raw socket options allow, or a
// name-service cache. Every socket's methods are meant to be called from a
// single goroutine that owns it; concurrent calls on the same socket from
// multiple goroutines are undefined, though distinct sockets may be driven
// independently from different goroutines.
//
// ## EXAMPLE USAGE
//
// Loopback TCP echo:
//
//	srv, err := sockit.NewTCPServer("", 0, 16, sockit.IPv4)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Close()
//
//	go func() {
//	    conn, err := srv.Accept(0)
//	    if err != nil {
//	        return
//	    }
//	    defer conn.Close()
//	    msg := conn.ReceiveAmountString(4, 0)
//	    conn.Send([]byte("got: "+msg), 0)
//	}()
//
//	client, err := sockit.NewTCPSocket("127.0.0.1", srv.Port(), sockit.IPv4)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//	client.Send([]byte("Test"), 0)
package sockit
