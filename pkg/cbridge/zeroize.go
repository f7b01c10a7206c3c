package cbridge

import "runtime"

// ZeroizeBytes overwrites the provided slice with zeros and prevents compiler
// dead store elimination using runtime.KeepAlive.
//
// Go may have copied the data elsewhere before this runs, so this is best
// effort. Use it on key material decoded by callers of the boundary.
func ZeroizeBytes(buf []byte) {
	clear(buf)
	runtime.KeepAlive(buf)
}
