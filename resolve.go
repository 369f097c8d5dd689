package sockit

import (
	"context"
	"net"

	"github.com/quietport/sockit/internal/compat"
)

// SocketType distinguishes the two socket kinds Hints can request.
type SocketType int

const (
	// StreamSocket requests TCP-style candidates.
	StreamSocket SocketType = iota
	// DatagramSocket requests UDP-style candidates.
	DatagramSocket
)

// Hints steers Resolve the way a getaddrinfo hints struct does: which IP
// version to prefer, which socket type the caller wants, and whether an
// absent hostname should resolve to a wildcard local address (Passive, the
// bind-side case) rather than being rejected.
type Hints struct {
	Version SocketType
	IPVer   InternetProtocolVersion
	Passive bool
}

// TCPHints builds the hint template TCPSocket and TCPServer use.
func TCPHints(version InternetProtocolVersion, passive bool) Hints {
	return Hints{Version: StreamSocket, IPVer: version, Passive: passive}
}

// UDPHints builds the hint template UDPSocket uses.
func UDPHints(version InternetProtocolVersion, passive bool) Hints {
	return Hints{Version: DatagramSocket, IPVer: version, Passive: passive}
}

// Resolve expands a (hostname, port, hints) triple into an ordered list of
// candidate addresses, the same role getaddrinfo plays in the C sockets
// API. If hostname is empty and hints.Passive is set, resolution yields
// wildcard local addresses: 0.0.0.0 for IPv4, :: for IPv6, and both (IPv4
// first) for Any. An empty result is not itself an error here: callers
// translate an empty list into KindResolve (TCPSocket, SendToHost),
// KindBind (UDPSocket.Bind) or KindSetup (TCPServer) at the point of use,
// per the error handling design (resolution failures are reported where
// they bite).
func Resolve(hostname string, port uint16, hints Hints) ([]Address, error) {
	if hostname == "" {
		if !hints.Passive {
			return nil, nil
		}
		return wildcardAddresses(hints.IPVer, port), nil
	}

	ips, err := lookupHost(hostname)
	if err != nil {
		return nil, err
	}

	var out []Address
	for _, ip := range ips {
		isV4 := ip.To4() != nil
		switch hints.IPVer {
		case IPv4:
			if !isV4 {
				continue
			}
		case IPv6:
			if isV4 {
				continue
			}
		}
		out = append(out, addressFromIP(ip, port, 0))
	}
	return out, nil
}

// lookupHost is the narrow seam onto the Go runtime resolver, the
// idiomatic equivalent of getaddrinfo's name-resolution half (the address
// family filtering is applied by Resolve itself; the socket type in Hints
// does not change the candidate list).
func lookupHost(hostname string) ([]net.IP, error) {
	if ip := net.ParseIP(hostname); ip != nil {
		return []net.IP{ip}, nil
	}
	addrs, err := net.DefaultResolver.LookupIPAddr(context.Background(), hostname)
	if err != nil {
		return nil, err
	}
	ips := make([]net.IP, len(addrs))
	for i, a := range addrs {
		ips[i] = a.IP
	}
	return ips, nil
}

func wildcardAddresses(version InternetProtocolVersion, port uint16) []Address {
	switch version {
	case IPv6:
		return []Address{addressFromIP(net.IPv6zero, port, 0)}
	case IPv4:
		return []Address{addressFromIP(net.IPv4zero, port, 0)}
	default:
		return []Address{
			addressFromIP(net.IPv4zero, port, 0),
			addressFromIP(net.IPv6zero, port, 0),
		}
	}
}

func versionToFamily(v InternetProtocolVersion) compat.Family {
	if v == IPv6 {
		return compat.FamilyInet6
	}
	return compat.FamilyInet4
}
