package sockit

import "fmt"

// ErrorKind is the closed set of failure categories sockit reports. Every
// fallible entry point in this package returns either a success value or
// an *Error carrying one of these kinds.
type ErrorKind int

const (
	// KindSetup covers descriptor creation, subsystem init, and option-set
	// failures during construction.
	KindSetup ErrorKind = iota
	// KindResolve covers hostname lookup failure or an empty candidate list.
	KindResolve
	// KindBind covers an address already in use or otherwise unbindable.
	KindBind
	// KindConnect covers no listening peer, connection refused, or unreachable.
	KindConnect
	// KindAccept covers a listening descriptor that is no longer valid.
	KindAccept
	// KindTimeout covers a readiness wait that elapsed without the expected event.
	KindTimeout
	// KindArgument covers illegal input caught before any syscall is made.
	KindArgument
	// KindClosed covers an operation attempted on a closed descriptor.
	KindClosed
)

// String names the error kind for logging and test failure messages.
func (k ErrorKind) String() string {
	switch k {
	case KindSetup:
		return "setup"
	case KindResolve:
		return "resolve"
	case KindBind:
		return "bind"
	case KindConnect:
		return "connect"
	case KindAccept:
		return "accept"
	case KindTimeout:
		return "timeout"
	case KindArgument:
		return "argument"
	case KindClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Error is the typed error every fallible sockit entry point returns. It
// carries the failure category, the OS-reported numeric code when one is
// available (0 otherwise, as for argument errors caught before any
// syscall), and a human string.
type Error struct {
	Kind    ErrorKind
	Op      string
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("sockit: %s: %s: %s", e.Op, e.Kind, e.Message)
	}
	return fmt.Sprintf("sockit: %s: %s", e.Op, e.Kind)
}

// Unwrap exposes the wrapped OS error, if any, for errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, op string, code int, message string, wrapped error) *Error {
	return &Error{Kind: kind, Op: op, Code: code, Message: message, Err: wrapped}
}

func argError(op, message string) *Error {
	return newError(KindArgument, op, 0, message, nil)
}

// Is reports whether err is a *Error of the given kind, the idiomatic Go
// equivalent of spec-level kind comparisons (mirrors net.Error.Timeout()
// style probes).
func Is(err error, kind ErrorKind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}

// IsTimeout reports whether err is a KindTimeout *Error.
func IsTimeout(err error) bool { return Is(err, KindTimeout) }

// IsClosed reports whether err is a KindClosed *Error.
func IsClosed(err error) bool { return Is(err, KindClosed) }
