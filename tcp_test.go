package sockit

import (
	"testing"
	"time"
)

func TestTCPSocketEmptyHostnameRejected(t *testing.T) {
	_, err := NewTCPSocket("", 80, IPv4)
	if !Is(err, KindArgument) {
		t.Errorf("NewTCPSocket(\"\", ...) error = %v, want a KindArgument error", err)
	}
}

func TestTCPSocketConnectionRefused(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping socket integration test in short mode")
	}

	// Bind an ephemeral listener, close it immediately so the port is very
	// likely unoccupied but no other process binds it under us, then try to
	// connect. Most OSes answer refused quickly on loopback.
	srv, err := NewTCPServer("127.0.0.1", 0, 1, IPv4)
	if err != nil {
		t.Fatalf("NewTCPServer() error = %v", err)
	}
	port := srv.Port()
	srv.Close()

	_, err = NewTCPSocket("127.0.0.1", port, IPv4, WithDialTimeout(2*time.Second))
	if err == nil {
		t.Fatal("NewTCPSocket() error = nil, want a connect failure")
	}
	if !Is(err, KindConnect) {
		t.Errorf("NewTCPSocket() error = %v, want a KindConnect error", err)
	}
}

func TestTCPSocketSendReceiveDelimiter(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping socket integration test in short mode")
	}

	srv, err := NewTCPServer("127.0.0.1", 0, 1, IPv4)
	if err != nil {
		t.Fatalf("NewTCPServer() error = %v", err)
	}
	defer srv.Close()

	serverSide := make(chan *TCPSocket, 1)
	go func() {
		conn, err := srv.Accept(5 * time.Second)
		if err == nil {
			serverSide <- conn
		}
	}()

	client, err := NewTCPSocket("127.0.0.1", srv.Port(), IPv4)
	if err != nil {
		t.Fatalf("NewTCPSocket() error = %v", err)
	}
	defer client.Close()

	conn := <-serverSide
	defer conn.Close()

	if ok, n := client.Send([]byte("hello\n"), 0); !ok || n != 6 {
		t.Fatalf("Send() = (%v, %d), want (true, 6)", ok, n)
	}

	line, err := conn.ReceiveToDelimiter('\n', 0)
	if err != nil {
		t.Fatalf("ReceiveToDelimiter() error = %v", err)
	}
	if line != "hello" {
		t.Errorf("ReceiveToDelimiter() = %q, want %q", line, "hello")
	}
}

func TestTCPSocketReceiveToDelimiterRejectsNull(t *testing.T) {
	s := &TCPSocket{}
	_, err := s.ReceiveToDelimiter(0, 0)
	if !Is(err, KindArgument) {
		t.Errorf("ReceiveToDelimiter(0, ...) error = %v, want a KindArgument error", err)
	}
}

func TestTCPSocketRequestedVersusConcreteVersion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping socket integration test in short mode")
	}

	srv, err := NewTCPServer("127.0.0.1", 0, 1, IPv4)
	if err != nil {
		t.Fatalf("NewTCPServer() error = %v", err)
	}
	defer srv.Close()

	client, err := NewTCPSocket("127.0.0.1", srv.Port(), Any)
	if err != nil {
		t.Fatalf("NewTCPSocket() error = %v", err)
	}
	defer client.Close()

	if client.RequestedVersion() != Any {
		t.Errorf("RequestedVersion() = %v, want Any", client.RequestedVersion())
	}
	if client.Version() != IPv4 {
		t.Errorf("Version() = %v, want IPv4 (loopback resolved)", client.Version())
	}
}
