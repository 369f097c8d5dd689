package sockit

import (
	"testing"
	"time"
)

func TestTCPServerAcceptRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping socket integration test in short mode")
	}

	srv, err := NewTCPServer("127.0.0.1", 0, 4, IPv4)
	if err != nil {
		t.Fatalf("NewTCPServer() error = %v", err)
	}
	defer srv.Close()

	if srv.Port() == 0 {
		t.Fatal("Port() = 0, want an OS-assigned ephemeral port")
	}

	accepted := make(chan *TCPSocket, 1)
	acceptErr := make(chan error, 1)
	go func() {
		conn, err := srv.Accept(5 * time.Second)
		if err != nil {
			acceptErr <- err
			return
		}
		accepted <- conn
	}()

	client, err := NewTCPSocket("127.0.0.1", srv.Port(), IPv4)
	if err != nil {
		t.Fatalf("NewTCPSocket() error = %v", err)
	}
	defer client.Close()

	select {
	case err := <-acceptErr:
		t.Fatalf("Accept() error = %v", err)
	case conn := <-accepted:
		defer conn.Close()
		if conn.RemoteAddress().IP() == nil {
			t.Error("RemoteAddress().IP() = nil, want the client's address")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for Accept")
	}
}

func TestTCPServerAcceptTimeout(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping socket integration test in short mode")
	}

	srv, err := NewTCPServer("127.0.0.1", 0, 4, IPv4)
	if err != nil {
		t.Fatalf("NewTCPServer() error = %v", err)
	}
	defer srv.Close()

	_, err = srv.Accept(10 * time.Millisecond)
	if !IsTimeout(err) {
		t.Errorf("Accept() error = %v, want a KindTimeout error", err)
	}
}

func TestTCPServerDuplicate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping socket integration test in short mode")
	}

	srv, err := NewTCPServer("127.0.0.1", 0, 4, IPv4)
	if err != nil {
		t.Fatalf("NewTCPServer() error = %v", err)
	}
	defer srv.Close()

	dup, err := srv.Duplicate()
	if err != nil {
		t.Fatalf("Duplicate() error = %v", err)
	}
	defer dup.Close()

	if dup.Port() != srv.Port() {
		t.Errorf("dup.Port() = %d, want %d", dup.Port(), srv.Port())
	}
	if dup.RawFD() == srv.RawFD() {
		t.Error("dup.RawFD() == srv.RawFD(), want an independent descriptor")
	}
}
