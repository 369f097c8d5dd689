//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package compat

import "golang.org/x/sys/unix"

// applyPlatformSocketDefaults sets SO_NOSIGPIPE at socket creation time on
// BSD-family OSes, which have no MSG_NOSIGNAL send flag: without it, a
// write to a peer-closed TCP stream raises SIGPIPE instead of returning
// EPIPE. Linux uses the per-send MSG_NOSIGNAL form instead (compat_linux.go).
func applyPlatformSocketDefaults(fd int) error {
	return unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_NOSIGPIPE, 1)
}

// noSignalFlag is 0 here: SIGPIPE avoidance already happened at socket
// creation via SO_NOSIGPIPE.
func noSignalFlag() int { return 0 }

// soReusePort reports 0: these BSDs are reachable via this build tag
// alongside darwin, and callers should rely on SO_REUSEADDR only for
// portability across the group; platforms that do support SO_REUSEPORT
// can still set it explicitly through RawFD()-based escape hatches.
func soReusePort() int { return 0 }
