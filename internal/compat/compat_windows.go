//go:build windows

package compat

import (
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

const invalidDescriptor = Descriptor(^uintptr(0))

func init() {
	SOL_SOCKET = int(windows.SOL_SOCKET)
	SO_REUSEADDR = int(windows.SO_REUSEADDR)
	SO_REUSEPORT = 0 // Winsock has no SO_REUSEPORT; SO_REUSEADDR covers rebinding.
	IPPROTO_IPV6 = windows.IPPROTO_IPV6
	IPV6_V6ONLY = windows.IPV6_V6ONLY
}

var wsaOnce sync.Once
var wsaErr error

var lastMu sync.Mutex
var lastCode int
var lastMsg string

func record(err error) error {
	if err == nil {
		return nil
	}
	lastMu.Lock()
	if errno, ok := err.(windows.Errno); ok {
		lastCode = int(errno)
	} else {
		lastCode = -1
	}
	lastMsg = err.Error()
	lastMu.Unlock()
	return err
}

// EnsureInitialised performs the one-time WSAStartup call Winsock requires
// before any socket() call in the process, guarded by sync.Once so repeat
// constructors pay no cost after the first.
func EnsureInitialised() error {
	wsaOnce.Do(func() {
		var data windows.WSAData
		wsaErr = windows.WSAStartup(uint32(0x0202), &data) // MAKEWORD(2,2)
	})
	return wsaErr
}

func InvalidSentinel() Descriptor { return invalidDescriptor }

func IsInvalid(d Descriptor) bool { return d == invalidDescriptor }

func Close(d Descriptor) {
	if IsInvalid(d) {
		return
	}
	_ = windows.Closesocket(windows.Handle(d))
}

// LastError returns the most recent WSA error code recorded by a compat
// call on this process, mirroring WSAGetLastError().
func LastError() (int, string) {
	lastMu.Lock()
	defer lastMu.Unlock()
	return lastCode, lastMsg
}

func familyToAF(f Family) int {
	if f == FamilyInet6 {
		return windows.AF_INET6
	}
	return windows.AF_INET
}

func sockTypeToWindows(t SockType) int {
	if t == SockDgram {
		return windows.SOCK_DGRAM
	}
	return windows.SOCK_STREAM
}

func toWindowsSockaddr(sa Sockaddr) windows.Sockaddr {
	if sa.Family == FamilyInet6 {
		return &windows.SockaddrInet6{Port: int(sa.Port), ZoneId: sa.ScopeID, Addr: sa.IPv6}
	}
	return &windows.SockaddrInet4{Port: int(sa.Port), Addr: sa.IPv4}
}

func fromWindowsSockaddr(sa windows.Sockaddr) (Sockaddr, error) {
	switch v := sa.(type) {
	case *windows.SockaddrInet4:
		return Sockaddr{Family: FamilyInet4, Port: uint16(v.Port), IPv4: v.Addr}, nil
	case *windows.SockaddrInet6:
		return Sockaddr{Family: FamilyInet6, Port: uint16(v.Port), IPv6: v.Addr, ScopeID: v.ZoneId}, nil
	default:
		return Sockaddr{}, windows.WSAEAFNOSUPPORT
	}
}

func Socket(family Family, typ SockType) (Descriptor, error) {
	fd, err := windows.Socket(familyToAF(family), sockTypeToWindows(typ), 0)
	if err != nil {
		return invalidDescriptor, record(err)
	}
	return Descriptor(fd), nil
}

func Bind(d Descriptor, sa Sockaddr) error {
	return record(windows.Bind(windows.Handle(d), toWindowsSockaddr(sa)))
}

func Connect(d Descriptor, sa Sockaddr) error {
	return record(windows.Connect(windows.Handle(d), toWindowsSockaddr(sa)))
}

func Listen(d Descriptor, backlog int) error {
	return record(windows.Listen(windows.Handle(d), backlog))
}

func Accept(d Descriptor) (Descriptor, Sockaddr, error) {
	nfd, rsa, err := windows.Accept(windows.Handle(d))
	if err != nil {
		return invalidDescriptor, Sockaddr{}, record(err)
	}
	sa, convErr := fromWindowsSockaddr(rsa)
	if convErr != nil {
		_ = windows.Closesocket(nfd)
		return invalidDescriptor, Sockaddr{}, record(convErr)
	}
	return Descriptor(nfd), sa, nil
}

// Send and Recv use WSASend/WSARecv directly rather than the Sendto/Recvfrom
// helpers so the actual byte count transferred is available even on a
// partial send of a large stream payload (spec: "may be less than
// requested for large payloads").
func Send(d Descriptor, buf []byte, flags int) (int, error) {
	var sent uint32
	wsabuf := windows.WSABuf{Len: uint32(len(buf)), Buf: bufPtr(buf)}
	err := windows.WSASend(windows.Handle(d), &wsabuf, 1, &sent, uint32(flags), nil, nil)
	return int(sent), record(err)
}

func Recv(d Descriptor, buf []byte, flags int) (int, error) {
	var recvd uint32
	var rflags uint32 = uint32(flags)
	wsabuf := windows.WSABuf{Len: uint32(len(buf)), Buf: bufPtr(buf)}
	err := windows.WSARecv(windows.Handle(d), &wsabuf, 1, &recvd, &rflags, nil, nil)
	return int(recvd), record(err)
}

func SendTo(d Descriptor, buf []byte, flags int, sa Sockaddr) (int, error) {
	err := windows.Sendto(windows.Handle(d), buf, flags, toWindowsSockaddr(sa))
	if err != nil {
		return 0, record(err)
	}
	return len(buf), nil
}

func RecvFrom(d Descriptor, buf []byte, flags int) (int, Sockaddr, error) {
	n, from, err := windows.Recvfrom(windows.Handle(d), buf, flags)
	if err != nil {
		return n, Sockaddr{}, record(err)
	}
	sa, convErr := fromWindowsSockaddr(from)
	if convErr != nil {
		return n, Sockaddr{}, record(convErr)
	}
	return n, sa, nil
}

func SetsockoptInt(d Descriptor, level, opt, value int) error {
	if opt == 0 {
		return nil
	}
	v := int32(value)
	return record(windows.Setsockopt(windows.Handle(d), int32(level), int32(opt), (*byte)(unsafe.Pointer(&v)), int32(unsafe.Sizeof(v))))
}

func Getsockname(d Descriptor) (Sockaddr, error) {
	rsa, err := windows.Getsockname(windows.Handle(d))
	if err != nil {
		return Sockaddr{}, record(err)
	}
	return fromWindowsSockaddr(rsa)
}

// PollOne uses WSAPoll, Winsock's analogue of poll(2).
func PollOne(d Descriptor, timeout time.Duration) int {
	if IsInvalid(d) {
		return PollInvalid
	}
	fds := []windows.WSAPollFd{{Fd: windows.Handle(d), Events: windows.POLLIN}}
	n, err := windows.WSAPoll(fds, durationToMillis(timeout))
	if err != nil {
		return PollInvalid
	}
	if n <= 0 {
		return PollTimeout
	}
	if fds[0].Revents&(windows.POLLIN|windows.POLLHUP|windows.POLLERR) != 0 {
		return 1
	}
	return PollTimeout
}

// Dup duplicates the socket handle in-process via DuplicateHandle. This
// does not produce a handle usable from another process the way
// WSADuplicateSocket does; within a single process, which is this
// library's documented concurrency model, it is sufficient to give a
// second Descriptor an independent lifetime over the same socket.
func Dup(d Descriptor) (Descriptor, error) {
	proc := windows.CurrentProcess()
	var dup windows.Handle
	err := windows.DuplicateHandle(proc, windows.Handle(d), proc, &dup, 0, true, windows.DUPLICATE_SAME_ACCESS)
	if err != nil {
		return invalidDescriptor, record(err)
	}
	return Descriptor(dup), nil
}

func bufPtr(b []byte) *byte {
	if len(b) == 0 {
		return nil
	}
	return &b[0]
}
