package sockit

import (
	"log/slog"
	"time"

	"github.com/quietport/sockit/internal/compat"
	"github.com/quietport/sockit/internal/sockopt"
)

// TCPServer is a listening endpoint that accepts incoming TCP connections.
type TCPServer struct {
	fd      compat.Descriptor
	port    uint16
	version InternetProtocolVersion
	addr    Address
	logger  *slog.Logger
}

// NewTCPServer resolves localHostname (empty means "any local address"),
// creates, optionally reuse-configures, binds, and listens on port with
// the given backlog, preferring version. Construction performs the ten
// steps in spec.md §4.6 in order; any failure closes the partially built
// descriptor before returning.
func NewTCPServer(localHostname string, port uint16, backlog int, version InternetProtocolVersion, opts ...ServerOption) (*TCPServer, error) {
	cfg := defaultServerConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := compat.EnsureInitialised(); err != nil {
		code, msg := compat.LastError()
		return nil, newError(KindSetup, "NewTCPServer", code, msg, err)
	}

	candidates, err := Resolve(localHostname, port, TCPHints(version, true))
	if err != nil {
		return nil, newError(KindSetup, "NewTCPServer", 0, err.Error(), err)
	}
	if len(candidates) == 0 {
		return nil, newError(KindSetup, "NewTCPServer", 0, "no bindable address for "+localHostname, nil)
	}
	addr := candidates[0]
	concreteVersion := addr.Family()

	fd, err := compat.Socket(versionToFamily(concreteVersion), compat.SockStream)
	if err != nil {
		code, msg := compat.LastError()
		return nil, newError(KindSetup, "NewTCPServer", code, msg, err)
	}

	if cfg.reuseAddr {
		if err := sockopt.ReuseAddr(fd); err != nil {
			compat.Close(fd)
			code, msg := compat.LastError()
			return nil, newError(KindSetup, "NewTCPServer", code, msg, err)
		}
	}

	if concreteVersion == IPv6 {
		if err := sockopt.ClearV6Only(fd); err != nil {
			// Best-effort per spec.md §4.6 step 7: some OSes don't allow
			// clearing V6ONLY, and that alone shouldn't fail construction.
			cfg.logger.Debug("clear IPV6_V6ONLY failed", "err", err)
		}
	}

	if err := compat.Bind(fd, addr.sa); err != nil {
		compat.Close(fd)
		code, msg := compat.LastError()
		return nil, newError(KindBind, "NewTCPServer", code, msg, err)
	}

	bound := addr
	if port == 0 {
		bound, err = localAddressOf(fd)
		if err != nil {
			compat.Close(fd)
			return nil, err
		}
	}

	if err := compat.Listen(fd, backlog); err != nil {
		compat.Close(fd)
		code, msg := compat.LastError()
		return nil, newError(KindSetup, "NewTCPServer", code, msg, err)
	}

	return &TCPServer{
		fd:      fd,
		port:    bound.Port(),
		version: concreteVersion,
		addr:    bound,
		logger:  cfg.logger,
	}, nil
}

// Port returns the bound listening port.
func (s *TCPServer) Port() uint16 { return s.port }

// Version returns the concrete IP version this server bound to.
func (s *TCPServer) Version() InternetProtocolVersion { return s.version }

// Address returns the bound local address.
func (s *TCPServer) Address() Address { return s.addr }

// RawFD exposes the listening descriptor; see TCPSocket.RawFD for the
// escape-hatch caveat.
func (s *TCPServer) RawFD() uintptr { return uintptr(s.fd) }

// Duplicate returns a second TCPServer with an independent OS handle over
// the same listening socket (design notes, §9).
func (s *TCPServer) Duplicate() (*TCPServer, error) {
	nfd, err := compat.Dup(s.fd)
	if err != nil {
		code, msg := compat.LastError()
		return nil, newError(KindSetup, "Duplicate", code, msg, err)
	}
	dup := *s
	dup.fd = nfd
	return &dup, nil
}

// Accept waits for and returns the next incoming connection. If timeout is
// positive, Accept first polls the listening descriptor: a clean timeout
// elapsing returns KindTimeout, and a no-longer-valid listener returns
// KindAccept, distinguishing the two per spec.md §4.6. A zero or negative
// timeout accepts with a blocking call.
func (s *TCPServer) Accept(timeout time.Duration) (*TCPSocket, error) {
	if timeout > 0 {
		switch compat.PollOne(s.fd, timeout) {
		case compat.PollTimeout:
			return nil, newError(KindTimeout, "Accept", 0, "no pending connection", nil)
		case compat.PollInvalid:
			return nil, newError(KindAccept, "Accept", 0, "listening descriptor is not valid", nil)
		}
	}

	nfd, sa, err := compat.Accept(s.fd)
	if err != nil {
		code, msg := compat.LastError()
		return nil, newError(KindAccept, "Accept", code, msg, err)
	}
	remote := Address{sa: sa}
	return newAcceptedTCPSocket(nfd, remote.IP().String(), remote.Port(), remote.Family(), remote, s.logger), nil
}

// Close releases the listening descriptor.
func (s *TCPServer) Close() {
	compat.Close(s.fd)
	s.fd = compat.InvalidSentinel()
}
