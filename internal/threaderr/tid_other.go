//go:build !linux && !windows

package threaderr

// CurrentThreadID has no portable implementation here; every caller shares
// slot 0.
func CurrentThreadID() int64 { return 0 }
