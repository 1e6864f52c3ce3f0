//go:build windows

package threaderr

import "golang.org/x/sys/windows"

// CurrentThreadID returns the id of the calling OS thread. Goroutines must be
// locked to their thread for the value to be stable.
func CurrentThreadID() int64 { return int64(windows.GetCurrentThreadId()) }
