//go:build cgo && !windows

package backend

/*
#include <stdlib.h>
#include <string.h>
*/
import "C"

import "unsafe"

// Built reports whether the native side is linked in.
func Built() bool { return true }

// Calloc returns n zeroed bytes of C memory, or 0 on exhaustion.
func Calloc(n uintptr) uintptr {
	return uintptr(C.calloc(1, C.size_t(n)))
}

// Free poisons n bytes at p and returns them to the C allocator.
func Free(p, n uintptr) {
	if p == 0 {
		return
	}
	ptr := unsafe.Pointer(p)
	if n > 0 {
		C.memset(ptr, C.int(PoisonByte), C.size_t(n))
	}
	C.free(ptr)
}

// CopyOut copies n bytes of C memory into a new Go slice.
func CopyOut(p, n uintptr) []byte {
	if p == 0 || n == 0 {
		return []byte{}
	}
	return C.GoBytes(unsafe.Pointer(p), C.int(n))
}

// CopyIn copies data into C memory at p.
func CopyIn(p uintptr, data []byte) {
	if p == 0 || len(data) == 0 {
		return
	}
	C.memcpy(unsafe.Pointer(p), unsafe.Pointer(&data[0]), C.size_t(len(data)))
}

// Strlen runs C strlen on p. p must be a NUL-terminated C string.
func Strlen(p uintptr) uintptr {
	if p == 0 {
		return 0
	}
	return uintptr(C.strlen((*C.char)(unsafe.Pointer(p))))
}
