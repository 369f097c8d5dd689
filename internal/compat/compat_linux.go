//go:build linux

package compat

import "golang.org/x/sys/unix"

// applyPlatformSocketDefaults is a no-op on Linux; SIGPIPE avoidance is
// handled per-send via MSG_NOSIGNAL (noSignalFlag), not a socket option.
func applyPlatformSocketDefaults(fd int) error { return nil }

// noSignalFlag returns MSG_NOSIGNAL so Send/SendTo never raise SIGPIPE on a
// peer-closed stream; the caller instead observes EPIPE, per the "blocking
// + signals" design note.
func noSignalFlag() int { return unix.MSG_NOSIGNAL }

// soReusePort reports SO_REUSEPORT's numeric value on Linux, where it is
// supported and commonly used alongside SO_REUSEADDR.
func soReusePort() int { return unix.SO_REUSEPORT }
