// Package compat isolates the OS differences the rest of sockit must not
// branch on: descriptor type, the invalid-descriptor sentinel, one-time
// subsystem init, readiness polling, and the raw socket syscalls themselves.
//
// Every exported function here has a unix implementation (compat_unix.go,
// compat_linux.go, compat_bsd.go) built on golang.org/x/sys/unix and a
// windows implementation (compat_windows.go) built on golang.org/x/sys/windows.
// The rest of the tree calls only this package's exported API and never
// imports golang.org/x/sys directly.
package compat

import "time"

// Descriptor is the OS socket handle: a raw file descriptor on unix, a
// Winsock SOCKET handle on windows. Both fit in a uintptr, which lets the
// rest of the tree hold one type regardless of platform.
type Descriptor uintptr

// Family is the address-family tag carried by Sockaddr.
type Family int

const (
	FamilyUnspecified Family = iota
	FamilyInet4
	FamilyInet6
)

// SockType distinguishes stream sockets from datagram sockets.
type SockType int

const (
	SockStream SockType = iota
	SockDgram
)

// Sockaddr is an OS-agnostic socket address. Each platform file converts
// to and from its own Sockaddr representation (unix.SockaddrInet4/6,
// windows.SockaddrInet4/6) at the syscall boundary.
type Sockaddr struct {
	Family   Family
	Port     uint16
	IPv4     [4]byte
	IPv6     [16]byte
	FlowInfo uint32
	ScopeID  uint32
}

// Poll outcomes, per the OS compatibility primitives contract: a positive
// return means data is ready, zero means the timeout elapsed without an
// event, and PollInvalid means the descriptor was not valid to begin with.
const (
	PollInvalid = -1
	PollTimeout = 0
)

// Socket option identifiers sockit needs at the call sites in
// internal/sockopt. Each platform file assigns these the OS-correct
// numeric values; a zero value for an option unsupported on a given OS
// (there is no SO_REUSEPORT on windows) means SetsockoptInt for that
// option is a deliberate no-op on that platform.
var (
	SOL_SOCKET   int
	SO_REUSEADDR int
	SO_REUSEPORT int
	IPPROTO_IPV6 int
	IPV6_V6ONLY  int
)

// durationToMillis converts a poll timeout to the millisecond granularity
// the underlying OS poll primitives expect, rounding positive durations up
// to the next whole millisecond so the wait is never shorter than asked,
// and clamping zero or negative durations to zero (poll once, don't block).
func durationToMillis(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	ms := d.Milliseconds()
	if d%time.Millisecond != 0 {
		ms++
	}
	if ms > int64(int(^uint(0)>>1)) {
		return int(^uint(0) >> 1)
	}
	return int(ms)
}
