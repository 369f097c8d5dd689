// Package sockopt bundles the short socket-option sequences TCPServer and
// UDPSocket need before binding: enabling address reuse and, on IPv6
// sockets, clearing IPV6_V6ONLY so a dual-stack listener can also accept
// IPv4-mapped connections where the OS allows it.
package sockopt

import (
	"github.com/quietport/sockit/internal/compat"
)

// ReuseAddr sets SO_REUSEADDR, and SO_REUSEPORT where the platform defines
// it, on d. This is the option a caller-supplied pre-bind hook is expected
// to set for two sockets to share a port (spec: "two UDP sockets may bind
// the same port iff both apply SO_REUSEADDR").
func ReuseAddr(d compat.Descriptor) error {
	if err := compat.SetsockoptInt(d, compat.SOL_SOCKET, compat.SO_REUSEADDR, 1); err != nil {
		return err
	}
	return compat.SetsockoptInt(d, compat.SOL_SOCKET, compat.SO_REUSEPORT, 1)
}

// ClearV6Only clears IPV6_V6ONLY on an IPv6 descriptor so that, on OSes
// that honor it, the listener also accepts IPv4 connections mapped onto
// the IPv6 address space.
func ClearV6Only(d compat.Descriptor) error {
	return compat.SetsockoptInt(d, compat.IPPROTO_IPV6, compat.IPV6_V6ONLY, 0)
}
