package sockit

import (
	"log/slog"
	"time"
)

// PreBindHook is a caller-supplied function run on the raw descriptor just
// before bind, the escape hatch UDPSocket.Bind exposes for options the
// library doesn't wrap directly (SO_REUSEADDR/SO_REUSEPORT, IPV6_V6ONLY,
// SO_RCVBUF, ...). TCPServer construction takes no such hook.
type PreBindHook func(fd uintptr) error

// TCPOption configures a TCPSocket at construction time.
type TCPOption func(*tcpConfig) error

// UDPOption configures a UDPSocket at construction or bind time.
type UDPOption func(*udpConfig) error

// ServerOption configures a TCPServer at construction time.
type ServerOption func(*serverConfig) error

type tcpConfig struct {
	logger      *slog.Logger
	dialTimeout time.Duration
}

type udpConfig struct {
	logger  *slog.Logger
	preBind PreBindHook
}

type serverConfig struct {
	logger    *slog.Logger
	reuseAddr bool
}

func defaultTCPConfig() tcpConfig { return tcpConfig{logger: slog.Default()} }
func defaultUDPConfig() udpConfig { return udpConfig{logger: slog.Default()} }
func defaultServerConfig() serverConfig {
	return serverConfig{logger: slog.Default(), reuseAddr: true}
}

// WithLogger, WithUDPLogger, and WithServerLogger attach a logger to a
// socket (slog.Default() otherwise). The library writes only Debug-level
// diagnostics to it: a candidate connect that failed (TCPSocket), a bind
// that failed (UDPSocket), and an IPV6_V6ONLY clear that failed
// (TCPServer). Failures are still reported as typed errors; the log never
// decides control flow.
func WithLogger(l *slog.Logger) TCPOption {
	return func(c *tcpConfig) error { c.logger = l; return nil }
}

// WithUDPLogger is WithLogger's UDPSocket counterpart.
func WithUDPLogger(l *slog.Logger) UDPOption {
	return func(c *udpConfig) error { c.logger = l; return nil }
}

// WithServerLogger is WithLogger's TCPServer counterpart.
func WithServerLogger(l *slog.Logger) ServerOption {
	return func(c *serverConfig) error { c.logger = l; return nil }
}

// WithDialTimeout stops NewTCPSocket from starting another candidate once
// d has elapsed, giving up with KindConnect. The check runs only between
// candidates: a connect attempt already in progress is not interrupted, so
// a single slow candidate can take longer than d.
func WithDialTimeout(d time.Duration) TCPOption {
	return func(c *tcpConfig) error { c.dialTimeout = d; return nil }
}

// WithPreBindHook registers the hook UDPSocket.Bind runs on the raw
// descriptor immediately before bind(2)/bind() — see PreBindHook.
func WithPreBindHook(hook PreBindHook) UDPOption {
	return func(c *udpConfig) error { c.preBind = hook; return nil }
}

// WithReuseAddr controls whether TCPServer sets SO_REUSEADDR before bind
// (step 6 of construction). Defaults to true; pass false to bind without
// it.
func WithReuseAddr(enabled bool) ServerOption {
	return func(c *serverConfig) error { c.reuseAddr = enabled; return nil }
}
