package sockit

import (
	"log/slog"
	"time"

	"github.com/quietport/sockit/internal/compat"
)

// UDPSocket is a connectionless datagram endpoint. It is default-
// constructed unbound; Bind creates and binds the receive descriptor.
// SendTo opens a new ephemeral descriptor per call and closes it
// immediately afterward (see design notes: this is the prescribed
// semantics, chosen over the historical per-OS divergence so that a send
// never constrains the family or liveness of the bound receive socket).
type UDPSocket struct {
	fd      compat.Descriptor
	bound   bool
	version InternetProtocolVersion
	port    uint16
	preBind PreBindHook
	logger  *slog.Logger
}

// NewUDPSocket returns an unbound UDPSocket ready for Bind or SendTo.
func NewUDPSocket(opts ...UDPOption) (*UDPSocket, error) {
	cfg := defaultUDPConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return &UDPSocket{
		fd:      compat.InvalidSentinel(),
		preBind: cfg.preBind,
		logger:  cfg.logger,
	}, nil
}

// Bind resolves (hostname, port) with datagram hints and binds the first
// candidate. If preBind is non-nil it runs on the raw descriptor right
// before bind, the hook callers use to set SO_REUSEADDR/SO_REUSEPORT or
// similar. If port is 0, the OS-assigned ephemeral port is discovered via
// localAddressOf and recorded. Binding an already-bound socket is a no-op
// that returns the current bound address.
func (u *UDPSocket) Bind(hostname string, port uint16, version InternetProtocolVersion, preBind PreBindHook) (Address, error) {
	if u.bound {
		return localAddressOf(u.fd)
	}
	if preBind != nil {
		u.preBind = preBind
	}

	if err := compat.EnsureInitialised(); err != nil {
		code, msg := compat.LastError()
		return Address{}, newError(KindSetup, "Bind", code, msg, err)
	}

	candidates, err := Resolve(hostname, port, UDPHints(version, true))
	if err != nil {
		return Address{}, newError(KindBind, "Bind", 0, err.Error(), err)
	}
	if len(candidates) == 0 {
		return Address{}, newError(KindBind, "Bind", 0, "no bindable address for "+hostname, nil)
	}
	addr := candidates[0]

	fd, err := compat.Socket(versionToFamily(addr.Family()), compat.SockDgram)
	if err != nil {
		code, msg := compat.LastError()
		return Address{}, newError(KindSetup, "Bind", code, msg, err)
	}

	if u.preBind != nil {
		if err := u.preBind(uintptr(fd)); err != nil {
			compat.Close(fd)
			return Address{}, newError(KindSetup, "Bind", 0, "pre-bind hook failed", err)
		}
	}

	if err := compat.Bind(fd, addr.sa); err != nil {
		compat.Close(fd)
		code, msg := compat.LastError()
		u.logger.Debug("bind failed", "address", addr.String(), "err", err)
		return Address{}, newError(KindBind, "Bind", code, msg, err)
	}

	bound := addr
	if port == 0 {
		bound, err = localAddressOf(fd)
		if err != nil {
			compat.Close(fd)
			return Address{}, err
		}
	}

	u.fd = fd
	u.bound = true
	u.version = addr.Family()
	u.port = bound.Port()
	return bound, nil
}

// Bound reports whether Bind has succeeded and not yet been undone by Close.
func (u *UDPSocket) Bound() bool { return u.bound }

// Version returns the concrete IP version of the bound receive descriptor,
// or Any if unbound.
func (u *UDPSocket) Version() InternetProtocolVersion {
	if !u.bound {
		return Any
	}
	return u.version
}

// Port returns the bound listening port, or 0 if unbound.
func (u *UDPSocket) Port() uint16 { return u.port }

// RawFD exposes the bound receive descriptor; see TCPSocket.RawFD for the
// same escape-hatch caveat.
func (u *UDPSocket) RawFD() uintptr { return uintptr(u.fd) }

// SendTo creates a new ephemeral descriptor matching addr's family, sends
// buf to addr, and closes the ephemeral descriptor, returning the number
// of bytes handed to the OS. This keeps the bound receive port (if any)
// free to accept unrelated families, per the design rationale in spec.md
// §4.5.
func (u *UDPSocket) SendTo(buf []byte, addr Address, flags int) (ok bool, bytesSent int) {
	fd, err := compat.Socket(versionToFamily(addr.Family()), compat.SockDgram)
	if err != nil {
		return false, -1
	}
	defer compat.Close(fd)

	n, err := compat.SendTo(fd, buf, flags, addr.sa)
	if err != nil {
		return false, -1
	}
	return true, n
}

// SendToHost resolves hostname to a candidate address, uses the first one,
// and defers to SendTo, returning the resolved address alongside the
// result so repeat sends can skip resolution.
func (u *UDPSocket) SendToHost(hostname string, port uint16, buf []byte, flags int) (ok bool, bytesSent int, addr Address, err error) {
	candidates, rerr := Resolve(hostname, port, UDPHints(Any, false))
	if rerr != nil {
		return false, -1, Address{}, newError(KindResolve, "SendToHost", 0, rerr.Error(), rerr)
	}
	if len(candidates) == 0 {
		return false, -1, Address{}, newError(KindResolve, "SendToHost", 0, "no candidate addresses for "+hostname, nil)
	}
	addr = candidates[0]
	ok, bytesSent = u.SendTo(buf, addr, flags)
	return ok, bytesSent, addr, nil
}

// ReceiveFrom reads one datagram of up to n bytes. If the socket is
// unbound, n is 0, or the socket is not Ready, it returns immediately with
// ok=false. UDP is one-datagram-per-read: any bytes beyond n in the
// pending datagram are discarded by the OS.
func (u *UDPSocket) ReceiveFrom(n int, flags int) (data string, bytesReceived int, from Address, ok bool) {
	if !u.bound || n == 0 || compat.PollOne(u.fd, 100*time.Microsecond) <= 0 {
		return "", 0, Address{}, false
	}
	buf := make([]byte, n)
	got, sa, err := compat.RecvFrom(u.fd, buf, flags)
	if err != nil {
		return "", 0, Address{}, false
	}
	return string(buf[:got]), got, Address{sa: sa}, true
}

// Ready reports whether the bound receive descriptor currently has a
// datagram waiting.
func (u *UDPSocket) Ready(timeout ...time.Duration) bool {
	if !u.bound {
		return false
	}
	return compat.PollOne(u.fd, pollTimeout(timeout)) > 0
}

// Close releases the receive descriptor and resets bound state and the
// recorded listening port.
func (u *UDPSocket) Close() {
	compat.Close(u.fd)
	u.fd = compat.InvalidSentinel()
	u.bound = false
	u.port = 0
}
