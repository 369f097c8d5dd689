package sockit

import (
	"net"
	"strconv"

	"github.com/quietport/sockit/internal/compat"
)

// InternetProtocolVersion is a caller-facing hint influencing candidate
// ordering during resolution. Any is never stored as a socket's concrete
// state — after resolution or accept every socket records the concrete
// family of the address it ended up using.
type InternetProtocolVersion int

const (
	// Any lets resolution pick whichever family the resolver returns first.
	Any InternetProtocolVersion = iota
	// IPv4 restricts resolution to IPv4 candidates.
	IPv4
	// IPv6 restricts resolution to IPv6 candidates.
	IPv6
)

func (v InternetProtocolVersion) String() string {
	switch v {
	case IPv4:
		return "ipv4"
	case IPv6:
		return "ipv6"
	default:
		return "any"
	}
}

// Address is a tagged union holding either an IPv4 or IPv6 endpoint. A
// zero-value Address holds neither: its family tag is unspecified (Family
// reports Any and IP returns nil) and it is rejected by every I/O entry
// point in this package.
type Address struct {
	sa compat.Sockaddr
}

// Family reports the concrete address family this Address holds.
func (a Address) Family() InternetProtocolVersion {
	switch a.sa.Family {
	case compat.FamilyInet4:
		return IPv4
	case compat.FamilyInet6:
		return IPv6
	default:
		return Any
	}
}

// Port returns the port in host byte order.
func (a Address) Port() uint16 { return a.sa.Port }

// IP returns the address's net.IP form.
func (a Address) IP() net.IP {
	switch a.sa.Family {
	case compat.FamilyInet4:
		ip := a.sa.IPv4
		return net.IPv4(ip[0], ip[1], ip[2], ip[3])
	case compat.FamilyInet6:
		ip := make(net.IP, 16)
		copy(ip, a.sa.IPv6[:])
		return ip
	default:
		return nil
	}
}

// String returns the printable form of the address, "host:port".
func (a Address) String() string {
	ip := a.IP()
	if ip == nil {
		return "<unspecified>"
	}
	return net.JoinHostPort(ip.String(), strconv.Itoa(int(a.sa.Port)))
}

// Len returns the wire size used when this address is the argument to
// bind/connect/sendto: the IPv6 sockaddr size by default (union-safe), and
// the IPv4 sockaddr size only when the family is specifically IPv4.
func (a Address) Len() int {
	if a.sa.Family == compat.FamilyInet4 {
		return sizeofSockaddrIn4
	}
	return sizeofSockaddrIn6
}

// These mirror the OS sockaddr_in / sockaddr_in6 sizes used by bind/connect
// internally; exposed so callers inspecting Len() see the same numbers a
// C-level caller of the underlying syscalls would.
const (
	sizeofSockaddrIn4 = 16
	sizeofSockaddrIn6 = 28
)

func addressFromIP(ip net.IP, port uint16, scopeID uint32) Address {
	if v4 := ip.To4(); v4 != nil {
		var sa compat.Sockaddr
		sa.Family = compat.FamilyInet4
		sa.Port = port
		copy(sa.IPv4[:], v4)
		return Address{sa: sa}
	}
	var sa compat.Sockaddr
	sa.Family = compat.FamilyInet6
	sa.Port = port
	sa.ScopeID = scopeID
	copy(sa.IPv6[:], ip.To16())
	return Address{sa: sa}
}

// localAddressOf wraps the system call retrieving a socket's locally bound
// address, used after binding with port 0 to discover the OS-assigned
// ephemeral port.
func localAddressOf(d compat.Descriptor) (Address, error) {
	sa, err := compat.Getsockname(d)
	if err != nil {
		code, msg := compat.LastError()
		return Address{}, newError(KindSetup, "local_address_of", code, msg, err)
	}
	return Address{sa: sa}, nil
}
