package sockit

import (
	"testing"
	"time"
)

func TestUDPSocketBindEphemeralPort(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping socket integration test in short mode")
	}

	sock, err := NewUDPSocket()
	if err != nil {
		t.Fatalf("NewUDPSocket() error = %v", err)
	}
	defer sock.Close()

	addr, err := sock.Bind("127.0.0.1", 0, IPv4, nil)
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if addr.Port() == 0 {
		t.Fatal("Bind() returned port 0, want an OS-assigned ephemeral port")
	}
	if !sock.Bound() {
		t.Error("Bound() = false after successful Bind")
	}
	if sock.Port() != addr.Port() {
		t.Errorf("Port() = %d, want %d", sock.Port(), addr.Port())
	}
}

func TestUDPSocketBindIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping socket integration test in short mode")
	}

	sock, err := NewUDPSocket()
	if err != nil {
		t.Fatalf("NewUDPSocket() error = %v", err)
	}
	defer sock.Close()

	first, err := sock.Bind("127.0.0.1", 0, IPv4, nil)
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	second, err := sock.Bind("127.0.0.1", 0, IPv4, nil)
	if err != nil {
		t.Fatalf("second Bind() error = %v", err)
	}
	if first.Port() != second.Port() {
		t.Errorf("second Bind() returned a different port: %d != %d", first.Port(), second.Port())
	}
}

func TestUDPSocketSendToReceiveFrom(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping socket integration test in short mode")
	}

	receiver, err := NewUDPSocket()
	if err != nil {
		t.Fatalf("NewUDPSocket() error = %v", err)
	}
	defer receiver.Close()

	addr, err := receiver.Bind("127.0.0.1", 0, IPv4, nil)
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}

	sender, err := NewUDPSocket()
	if err != nil {
		t.Fatalf("NewUDPSocket() error = %v", err)
	}
	defer sender.Close()

	ok, n := sender.SendTo([]byte("ping"), addr, 0)
	if !ok || n != 4 {
		t.Fatalf("SendTo() = (%v, %d), want (true, 4)", ok, n)
	}

	deadline := time.Now().Add(2 * time.Second)
	for !receiver.Ready() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	data, got, _, ok := receiver.ReceiveFrom(64, 0)
	if !ok {
		t.Fatal("ReceiveFrom() ok = false, want true")
	}
	if data != "ping" || got != 4 {
		t.Errorf("ReceiveFrom() = (%q, %d), want (\"ping\", 4)", data, got)
	}
}

func TestUDPSocketUnboundReceiveFromReturnsFalse(t *testing.T) {
	sock, err := NewUDPSocket()
	if err != nil {
		t.Fatalf("NewUDPSocket() error = %v", err)
	}
	defer sock.Close()

	_, _, _, ok := sock.ReceiveFrom(64, 0)
	if ok {
		t.Error("ReceiveFrom() on unbound socket ok = true, want false")
	}
}

func TestUDPSocketPreBindHookRuns(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping socket integration test in short mode")
	}

	var hookCalled bool
	sock, err := NewUDPSocket(WithPreBindHook(func(fd uintptr) error {
		hookCalled = true
		return nil
	}))
	if err != nil {
		t.Fatalf("NewUDPSocket() error = %v", err)
	}
	defer sock.Close()

	if _, err := sock.Bind("127.0.0.1", 0, IPv4, nil); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if !hookCalled {
		t.Error("pre-bind hook was not invoked")
	}
}
