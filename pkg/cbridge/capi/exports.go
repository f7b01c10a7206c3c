//go:build cgo && !windows

package capi

/*
#include "cbridge.h"

extern void capi_invoke_cb(cbridge_sum_square_fn cb, int result, void *user_data);
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/callback"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/cstring"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/handle"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/heap"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/layout"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/result"
)

const sentinel = C.int(result.Sentinel)

// address converts a native heap pointer into a C address.
func address(h heap.Heap, p heap.Ptr) unsafe.Pointer {
	if p == heap.Null {
		return nil
	}
	addr, ok := heap.Native(h, p)
	if !ok {
		panic(fmt.Errorf("capi: %s heap cannot hand memory to C", h.Kind()))
	}
	return unsafe.Pointer(addr)
}

func ptrOf(p unsafe.Pointer) heap.Ptr {
	return heap.Ptr(uintptr(p))
}

//export cbridge_api_version
func cbridge_api_version() (ret C.int) {
	defer guard.Load().Recover("cbridge_api_version", func() { ret = sentinel })
	return C.int(current().Handles().APIVersion())
}

//export cbridge_object_new
func cbridge_object_new() (ret C.uint64_t) {
	defer guard.Load().Recover("cbridge_object_new", func() { ret = 0 })
	return C.uint64_t(current().Handles().Create(handle.DefaultInfo))
}

//export cbridge_object_free
func cbridge_object_free(h C.uint64_t) {
	defer guard.Load().Recover("cbridge_object_free", nil)
	if h == 0 {
		return
	}
	current().Handles().Destroy(handle.Handle(h))
}

//export cbridge_object_get_info
func cbridge_object_get_info(h C.uint64_t) (ret C.int) {
	defer guard.Load().Recover("cbridge_object_get_info", func() { ret = 0 })
	return C.int(current().Handles().Info(handle.Handle(h)))
}

//export cbridge_object_set_info
func cbridge_object_set_info(h C.uint64_t, info C.int) {
	defer guard.Load().Recover("cbridge_object_set_info", nil)
	current().Handles().SetInfo(handle.Handle(h), int32(info))
}

//export cbridge_object_sizeof
func cbridge_object_sizeof() (ret C.size_t) {
	defer guard.Load().Recover("cbridge_object_sizeof", func() { ret = 0 })
	return C.size_t(current().Handles().SizeOf())
}

// exportStr hands an owned string to C. Exhaustion is fatal at the
// boundary; other failures return NULL.
func exportStr(s cstring.Str, err error) *C.char {
	if err != nil {
		if result.Fatal(err) {
			panic(err)
		}
		return nil
	}
	return (*C.char)(address(current().Heap(), s.Ptr()))
}

//export cbridge_generate
func cbridge_generate(seed *C.char) (ret *C.char) {
	defer guard.Load().Recover("cbridge_generate", func() { ret = nil })
	if seed == nil {
		return nil
	}
	return exportStr(current().Strings().Generate(C.GoString(seed)))
}

//export cbridge_free_str
func cbridge_free_str(s *C.char) {
	defer guard.Load().Recover("cbridge_free_str", nil)
	b := current().Strings()
	b.Release(b.Adopt(ptrOf(unsafe.Pointer(s))))
}

//export cbridge_count_char
func cbridge_count_char(s *C.char) (ret C.int) {
	defer guard.Load().Recover("cbridge_count_char", func() { ret = sentinel })
	if s == nil {
		return sentinel
	}
	return C.int(cstring.Count([]byte(C.GoString(s))))
}

//export cbridge_transform
func cbridge_transform(s *C.char) (ret *C.char) {
	defer guard.Load().Recover("cbridge_transform", func() { ret = nil })
	if s == nil {
		return nil
	}
	b := current().Strings()
	return exportStr(b.Transform(b.Adopt(ptrOf(unsafe.Pointer(s)))))
}

//export cbridge_handle_tuple
func cbridge_handle_tuple(tup C.cbridge_tuple) (ret C.cbridge_tuple) {
	defer guard.Load().Recover("cbridge_handle_tuple", func() { ret = C.cbridge_tuple{} })
	out := layout.HandleTuple(layout.Tuple{Count: uint32(tup.integer), Flag: bool(tup.boolean)})
	ret.integer = C.uint(out.Count)
	if out.Flag {
		ret.boolean = true
	}
	return ret
}

//export cbridge_handle_result
func cbridge_handle_result(s *C.char) (ret C.int) {
	defer guard.Load().Recover("cbridge_handle_result", func() { ret = sentinel })
	if s == nil {
		return C.int(result.HandleResult(nil))
	}
	header := C.GoString(s)
	return C.int(result.HandleResult(&header))
}

//export cbridge_handle_option
func cbridge_handle_option(x, y C.float, out *C.float) (ret C.int) {
	defer guard.Load().Recover("cbridge_handle_option", func() { ret = sentinel })
	var ratio float32
	code := result.HandleOption(float32(x), float32(y), &ratio)
	if code == result.OK && out != nil {
		*out = C.float(ratio)
	}
	return C.int(code)
}

//export cbridge_no_panic
func cbridge_no_panic(shouldPanic C.int) (ret C.int) {
	defer guard.Load().Recover("cbridge_no_panic", func() { ret = sentinel })
	return C.int(guard.Load().NoPanic(func() {
		if shouldPanic != 0 {
			panic("panic happens")
		}
	}))
}

func student(p heap.Ptr, err error) *C.cbridge_student {
	if err != nil {
		if result.Fatal(err) {
			panic(err)
		}
		return nil
	}
	return (*C.cbridge_student)(address(current().Heap(), p))
}

//export cbridge_student_new
func cbridge_student_new() (ret *C.cbridge_student) {
	defer guard.Load().Recover("cbridge_student_new", func() { ret = nil })
	return student(layout.NewStudent(current().Heap()))
}

//export cbridge_student_alice
func cbridge_student_alice() (ret *C.cbridge_student) {
	defer guard.Load().Recover("cbridge_student_alice", func() { ret = nil })
	return student(layout.NewAlice(current().Heap()))
}

//export cbridge_student_free
func cbridge_student_free(stu *C.cbridge_student) {
	defer guard.Load().Recover("cbridge_student_free", nil)
	layout.FreeStudent(current().Heap(), ptrOf(unsafe.Pointer(stu)))
}

//export cbridge_sum_of_even
func cbridge_sum_of_even(xs *C.int, n C.size_t) (ret C.int) {
	defer guard.Load().Recover("cbridge_sum_of_even", func() { ret = sentinel })
	if xs == nil {
		return sentinel
	}
	view := unsafe.Slice((*int32)(unsafe.Pointer(xs)), int(n))
	return C.int(layout.SumOfEven(view))
}

//export cbridge_fibonacci
func cbridge_fibonacci(index C.uint) (ret C.uint) {
	defer guard.Load().Recover("cbridge_fibonacci", func() { ret = 0 })
	return C.uint(layout.Fibonacci(uint32(index)))
}

//export cbridge_sum_square_cb
func cbridge_sum_square_cb(a, b C.int, cb C.cbridge_sum_square_fn, userData unsafe.Pointer) (ret C.int) {
	defer guard.Load().Recover("cbridge_sum_square_cb", func() { ret = sentinel })
	var fn callback.Func
	if cb != nil {
		fn = func(r int32, ctx any) {
			C.capi_invoke_cb(cb, C.int(r), ctx.(unsafe.Pointer))
		}
	}
	return C.int(result.EncodeResult(callback.Invoke(int32(a), int32(b), callback.SumSquare, fn, userData)))
}
