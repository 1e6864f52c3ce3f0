//go:build linux

package threaderr

import "golang.org/x/sys/unix"

// CurrentThreadID returns the kernel id of the calling OS thread. Goroutines
// must be locked to their thread for the value to be stable.
func CurrentThreadID() int64 { return int64(unix.Gettid()) }
