//go:build !windows

package compat

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

const invalidDescriptor = Descriptor(^uintptr(0))

func init() {
	SOL_SOCKET = unix.SOL_SOCKET
	SO_REUSEADDR = unix.SO_REUSEADDR
	SO_REUSEPORT = soReusePort()
	IPPROTO_IPV6 = unix.IPPROTO_IPV6
	IPV6_V6ONLY = unix.IPV6_V6ONLY
}

var lastMu sync.Mutex
var lastCode int
var lastMsg string

func record(err error) error {
	if err == nil {
		return nil
	}
	lastMu.Lock()
	if errno, ok := err.(unix.Errno); ok {
		lastCode = int(errno)
		lastMsg = errno.Error()
	} else {
		lastCode = -1
		lastMsg = err.Error()
	}
	lastMu.Unlock()
	return err
}

// EnsureInitialised is a no-op on unix: there is no subsystem to start up
// before the first socket() call, unlike Winsock.
func EnsureInitialised() error { return nil }

func InvalidSentinel() Descriptor { return invalidDescriptor }

func IsInvalid(d Descriptor) bool { return d == invalidDescriptor }

// Close releases the descriptor. Never fails observably, per contract: the
// caller cannot act on a close failure anyway.
func Close(d Descriptor) {
	if IsInvalid(d) {
		return
	}
	_ = unix.Close(int(d))
}

// LastError returns the most recently recorded errno/message pair from a
// compat call on this process. Unix syscalls report errors inline rather
// than via a true thread-local, so this is a best-effort mirror of that
// inline value for API parity with the windows path.
func LastError() (int, string) {
	lastMu.Lock()
	defer lastMu.Unlock()
	return lastCode, lastMsg
}

func familyToDomain(f Family) int {
	if f == FamilyInet6 {
		return unix.AF_INET6
	}
	return unix.AF_INET
}

func domainToFamily(domain int) Family {
	if domain == unix.AF_INET6 {
		return FamilyInet6
	}
	return FamilyInet4
}

func sockTypeToUnix(t SockType) int {
	if t == SockDgram {
		return unix.SOCK_DGRAM
	}
	return unix.SOCK_STREAM
}

func toUnixSockaddr(sa Sockaddr) unix.Sockaddr {
	if sa.Family == FamilyInet6 {
		return &unix.SockaddrInet6{Port: int(sa.Port), ZoneId: sa.ScopeID, Addr: sa.IPv6}
	}
	return &unix.SockaddrInet4{Port: int(sa.Port), Addr: sa.IPv4}
}

func fromUnixSockaddr(sa unix.Sockaddr) (Sockaddr, error) {
	switch v := sa.(type) {
	case *unix.SockaddrInet4:
		return Sockaddr{Family: FamilyInet4, Port: uint16(v.Port), IPv4: v.Addr}, nil
	case *unix.SockaddrInet6:
		return Sockaddr{Family: FamilyInet6, Port: uint16(v.Port), IPv6: v.Addr, ScopeID: v.ZoneId}, nil
	default:
		return Sockaddr{}, unix.EAFNOSUPPORT
	}
}

// Socket creates a descriptor of the given family and type. On BSD-family
// OSes (compat_bsd.go) this also sets SO_NOSIGPIPE so that writes to a
// peer-closed stream return EPIPE instead of raising SIGPIPE; on Linux
// MSG_NOSIGNAL is used per-send instead (see compat_linux.go), per the
// "blocking + signals" note in the design notes.
func Socket(family Family, typ SockType) (Descriptor, error) {
	fd, err := unix.Socket(familyToDomain(family), sockTypeToUnix(typ), 0)
	if err != nil {
		return invalidDescriptor, record(err)
	}
	if err := applyPlatformSocketDefaults(fd); err != nil {
		_ = unix.Close(fd)
		return invalidDescriptor, record(err)
	}
	return Descriptor(fd), nil
}

func Bind(d Descriptor, sa Sockaddr) error {
	return record(unix.Bind(int(d), toUnixSockaddr(sa)))
}

func Connect(d Descriptor, sa Sockaddr) error {
	return record(unix.Connect(int(d), toUnixSockaddr(sa)))
}

func Listen(d Descriptor, backlog int) error {
	return record(unix.Listen(int(d), backlog))
}

func Accept(d Descriptor) (Descriptor, Sockaddr, error) {
	nfd, rsa, err := unix.Accept(int(d))
	if err != nil {
		return invalidDescriptor, Sockaddr{}, record(err)
	}
	sa, err := fromUnixSockaddr(rsa)
	if err != nil {
		_ = unix.Close(nfd)
		return invalidDescriptor, Sockaddr{}, record(err)
	}
	return Descriptor(nfd), sa, nil
}

func Send(d Descriptor, buf []byte, flags int) (int, error) {
	n, err := unix.SendmsgN(int(d), buf, nil, nil, flags|noSignalFlag())
	return n, record(err)
}

func Recv(d Descriptor, buf []byte, flags int) (int, error) {
	n, _, err := unix.Recvfrom(int(d), buf, flags)
	return n, record(err)
}

func SendTo(d Descriptor, buf []byte, flags int, sa Sockaddr) (int, error) {
	n, err := unix.SendmsgN(int(d), buf, nil, toUnixSockaddr(sa), flags|noSignalFlag())
	return n, record(err)
}

func RecvFrom(d Descriptor, buf []byte, flags int) (int, Sockaddr, error) {
	n, from, err := unix.Recvfrom(int(d), buf, flags)
	if err != nil {
		return n, Sockaddr{}, record(err)
	}
	sa, convErr := fromUnixSockaddr(from)
	if convErr != nil {
		return n, Sockaddr{}, record(convErr)
	}
	return n, sa, nil
}

func SetsockoptInt(d Descriptor, level, opt, value int) error {
	if opt == 0 {
		// Unsupported option on this OS (e.g. SO_REUSEPORT requested as 0):
		// treat as a deliberate no-op rather than an error.
		return nil
	}
	return record(unix.SetsockoptInt(int(d), level, opt, value))
}

func Getsockname(d Descriptor) (Sockaddr, error) {
	rsa, err := unix.Getsockname(int(d))
	if err != nil {
		return Sockaddr{}, record(err)
	}
	return fromUnixSockaddr(rsa)
}

// PollOne waits up to timeout for d to become readable. Returns PollInvalid
// immediately for an invalid descriptor without touching the OS.
func PollOne(d Descriptor, timeout time.Duration) int {
	if IsInvalid(d) {
		return PollInvalid
	}
	fds := []unix.PollFd{{Fd: int32(d), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, durationToMillis(timeout))
	if err != nil {
		return PollInvalid
	}
	if n <= 0 {
		return PollTimeout
	}
	if fds[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0 {
		return 1
	}
	return PollTimeout
}

// Dup duplicates the descriptor via dup(2), yielding an independent handle
// to the same open file description (shared position/state, independent
// lifetime) — the "duplicate descriptor operation" called for in the
// design notes as the safe alternative to aliasing a socket value.
func Dup(d Descriptor) (Descriptor, error) {
	nfd, err := unix.Dup(int(d))
	if err != nil {
		return invalidDescriptor, record(err)
	}
	return Descriptor(nfd), nil
}
