package sockit

import (
	"log/slog"
	"time"

	"github.com/quietport/sockit/internal/compat"
)

// TCPSocket is a connection-oriented byte-stream client. It owns exactly
// one OS descriptor; copying a TCPSocket value copies the struct but both
// copies alias the same descriptor, so prefer passing *TCPSocket or
// calling Duplicate (see design notes on the copy-socket footgun).
type TCPSocket struct {
	fd        compat.Descriptor
	hostname  string
	port      uint16
	requested InternetProtocolVersion
	version   InternetProtocolVersion
	remote    Address
	logger    *slog.Logger
}

// NewTCPSocket resolves hostname and connects to it on port, trying each
// resolved candidate in order until one connects or the list is
// exhausted. An empty hostname is rejected as KindArgument before any
// syscall is made.
func NewTCPSocket(hostname string, port uint16, version InternetProtocolVersion, opts ...TCPOption) (*TCPSocket, error) {
	if hostname == "" {
		return nil, argError("NewTCPSocket", "hostname must not be empty")
	}

	cfg := defaultTCPConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := compat.EnsureInitialised(); err != nil {
		code, msg := compat.LastError()
		return nil, newError(KindSetup, "NewTCPSocket", code, msg, err)
	}

	candidates, err := Resolve(hostname, port, TCPHints(version, false))
	if err != nil {
		return nil, newError(KindResolve, "NewTCPSocket", 0, err.Error(), err)
	}
	if len(candidates) == 0 {
		return nil, newError(KindResolve, "NewTCPSocket", 0, "no candidate addresses for "+hostname, nil)
	}

	deadline := time.Time{}
	if cfg.dialTimeout > 0 {
		deadline = time.Now().Add(cfg.dialTimeout)
	}

	var lastErr error
	for _, addr := range candidates {
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}
		fd, err := compat.Socket(versionToFamily(addr.Family()), compat.SockStream)
		if err != nil {
			lastErr = err
			continue
		}
		if err := compat.Connect(fd, addr.sa); err != nil {
			compat.Close(fd)
			lastErr = err
			cfg.logger.Debug("candidate connect failed", "address", addr.String(), "err", err)
			continue
		}
		return &TCPSocket{
			fd:        fd,
			hostname:  hostname,
			port:      port,
			requested: version,
			version:   addr.Family(),
			remote:    addr,
			logger:    cfg.logger,
		}, nil
	}

	code, msg := compat.LastError()
	if lastErr != nil {
		msg = lastErr.Error()
	}
	return nil, newError(KindConnect, "NewTCPSocket", code, msg, lastErr)
}

// newAcceptedTCPSocket adopts a descriptor produced by TCPServer.Accept.
// It records metadata only; the descriptor is already connected.
func newAcceptedTCPSocket(fd compat.Descriptor, hostname string, port uint16, version InternetProtocolVersion, remote Address, logger *slog.Logger) *TCPSocket {
	return &TCPSocket{
		fd:        fd,
		hostname:  hostname,
		port:      port,
		requested: version,
		version:   version,
		remote:    remote,
		logger:    logger,
	}
}

// RequestedVersion returns the IP version the caller asked for at
// construction, which may be Any even after Version reports a concrete
// family.
func (s *TCPSocket) RequestedVersion() InternetProtocolVersion { return s.requested }

// Version returns the concrete IP version this socket resolved to.
func (s *TCPSocket) Version() InternetProtocolVersion { return s.version }

// RemoteAddress returns the peer address recorded at connect/accept time.
func (s *TCPSocket) RemoteAddress() Address { return s.remote }

// RemoteHostname returns the hostname string used at construction; for
// sockets adopted from TCPServer.Accept it is the peer's IP address in
// printable form.
func (s *TCPSocket) RemoteHostname() string { return s.hostname }

// RemotePort returns the remote port used at construction.
func (s *TCPSocket) RemotePort() uint16 { return s.port }

// RawFD exposes the underlying descriptor for callers wiring socket
// options this package doesn't cover directly. Escape hatch: bypasses the
// library's lifecycle guarantees, so closing or reconfiguring it outside
// sockit's own methods is the caller's responsibility.
func (s *TCPSocket) RawFD() uintptr { return uintptr(s.fd) }

// Duplicate returns a second TCPSocket with an independent OS handle over
// the same connection, the safe alternative to copying a TCPSocket value
// (design notes, §9: "explicit duplicate descriptor operation").
func (s *TCPSocket) Duplicate() (*TCPSocket, error) {
	nfd, err := compat.Dup(s.fd)
	if err != nil {
		code, msg := compat.LastError()
		return nil, newError(KindSetup, "Duplicate", code, msg, err)
	}
	dup := *s
	dup.fd = nfd
	return &dup, nil
}

// Send invokes the underlying send, returning the number of bytes actually
// handed to the OS send buffer, which may be less than len(buf) for large
// payloads — callers needing all bytes written must loop. Returns
// ok=false, bytesSent=-1 on error.
func (s *TCPSocket) Send(buf []byte, flags int) (ok bool, bytesSent int) {
	if compat.IsInvalid(s.fd) {
		return false, -1
	}
	n, err := compat.Send(s.fd, buf, flags)
	if err != nil {
		return false, -1
	}
	return true, n
}

// PollOne wraps the OS readiness wait on the owned descriptor. Returns >0
// when data is ready, 0 on a clean timeout, -1 if the descriptor is not
// valid.
func (s *TCPSocket) PollOne(timeout time.Duration) int {
	return compat.PollOne(s.fd, timeout)
}

// Ready reports whether the socket is currently readable within timeout,
// defaulting to the 100µs liveness clock the framing helpers use.
func (s *TCPSocket) Ready(timeout ...time.Duration) bool {
	return s.PollOne(pollTimeout(timeout)) > 0
}

// Connected reports whether the descriptor still looks usable within
// timeout. This is a weak probe: on many OSes it cannot reliably detect a
// remote-initiated half-close, only that the descriptor itself is valid.
func (s *TCPSocket) Connected(timeout ...time.Duration) bool {
	return s.PollOne(pollTimeout(timeout)) != compat.PollInvalid
}

func pollTimeout(timeout []time.Duration) time.Duration {
	if len(timeout) > 0 {
		return timeout[0]
	}
	return 100 * time.Microsecond
}

// ReceiveAmount attempts to read exactly n bytes into buf (which must have
// length >= n), looping while the socket is Ready and stopping early the
// moment a read returns fewer than 1 byte (peer closed or error). It
// returns the number of bytes actually received, which is n only if no
// peer close intervened.
func (s *TCPSocket) ReceiveAmount(buf []byte, n int, flags int) int {
	if n > len(buf) {
		n = len(buf)
	}
	received := 0
	for received < n && s.Ready() {
		nn, err := compat.Recv(s.fd, buf[received:n], flags)
		if err != nil || nn < 1 {
			break
		}
		received += nn
	}
	return received
}

// ReceiveAmountString is ReceiveAmount's string-returning form: it
// allocates an n-byte buffer and trims the result to the actual count.
func (s *TCPSocket) ReceiveAmountString(n int, flags int) string {
	buf := make([]byte, n)
	got := s.ReceiveAmount(buf, n, flags)
	return string(buf[:got])
}

// ReceiveToDelimiter reads one byte at a time while the socket is Ready,
// appending bytes not equal to delim and stopping when delim is read or
// the stream goes not-ready. The delimiter byte is discarded and never
// appears in the result. A zero-byte delimiter is rejected as
// KindArgument.
func (s *TCPSocket) ReceiveToDelimiter(delim byte, flags int) (string, error) {
	if delim == 0 {
		return "", argError("ReceiveToDelimiter", "delimiter must not be the null byte")
	}
	var out []byte
	var one [1]byte
	for s.Ready() {
		n, err := compat.Recv(s.fd, one[:], flags)
		if err != nil || n < 1 {
			break
		}
		if one[0] == delim {
			break
		}
		out = append(out, one[0])
	}
	return string(out), nil
}

// ReceiveAll loops while Ready(timeout), each iteration calling
// ReceiveAmount for the value PollOne returns and concatenating the
// results. PollOne reports readiness as 1, not as a count of available
// bytes, so the data is read one byte per iteration. It stops when Ready
// returns false or a chunk starts with a null byte; with one-byte chunks
// that is the first null byte in the stream (bug-compatible with the
// original implementation this library generalizes; see design notes).
func (s *TCPSocket) ReceiveAll(timeout time.Duration, flags int) string {
	var out []byte
	for s.Ready(timeout) {
		n := s.PollOne(timeout)
		if n <= 0 {
			break
		}
		chunk := make([]byte, n)
		got := s.ReceiveAmount(chunk, n, flags)
		if got == 0 {
			break
		}
		if chunk[0] == 0 {
			break
		}
		out = append(out, chunk[:got]...)
	}
	return string(out)
}

// Get is a shortcut for ReceiveAmount(1); ok is false on an empty read.
func (s *TCPSocket) Get(flags int) (b byte, ok bool) {
	var buf [1]byte
	if s.ReceiveAmount(buf[:], 1, flags) != 1 {
		return 0, false
	}
	return buf[0], true
}

// Close releases the descriptor. A second call on an already-closed socket
// is silently accepted.
func (s *TCPSocket) Close() {
	compat.Close(s.fd)
	s.fd = compat.InvalidSentinel()
}
