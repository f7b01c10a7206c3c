//go:build cgo && !windows

package backend

import "C"

import "unsafe"

//export cbridgeSumSquareHook
func cbridgeSumSquareHook(result C.int, userData unsafe.Pointer) {
	v, ok := get(userData)
	if !ok {
		return
	}
	call, ok := v.(*sumSquareCall)
	if !ok {
		return
	}
	call.invoke(int32(result))
}
