//go:build cgo && !windows

package backend

/*
typedef void (*native_sum_square_fn)(int result, void *user_data);

extern void cbridgeSumSquareHook(int result, void *user_data);

// Unsigned arithmetic keeps overflow defined and matches Go int32 wrapping.
static void native_sum_square_cb(int a, int b, native_sum_square_fn cb, void *user_data) {
	int result = (int)((unsigned)a * (unsigned)a + (unsigned)b * (unsigned)b);
	cb(result, user_data);
}

static void native_sum_square_go(int a, int b, void *user_data) {
	native_sum_square_cb(a, b, cbridgeSumSquareHook, user_data);
}
*/
import "C"

import (
	"sync"
	"unsafe"
)

type handle uintptr

var (
	mu   sync.Mutex
	next handle = 1
	reg         = map[handle]any{}
)

func put(v any) (handle, unsafe.Pointer) {
	mu.Lock()
	h := next
	next++
	reg[h] = v
	mu.Unlock()
	return h, unsafe.Pointer(uintptr(h))
}

func get(ptr unsafe.Pointer) (any, bool) {
	h := handle(uintptr(ptr))
	mu.Lock()
	v, ok := reg[h]
	mu.Unlock()
	return v, ok
}

func del(h handle) {
	mu.Lock()
	delete(reg, h)
	mu.Unlock()
}

// Pending returns the number of registered callback contexts. It drops back
// to zero once every SumSquare call has returned.
func Pending() int {
	mu.Lock()
	defer mu.Unlock()
	return len(reg)
}

type sumSquareCall struct {
	fn        func(result int32)
	calls     int
	recovered any
}

func (c *sumSquareCall) invoke(result int32) {
	defer func() {
		if r := recover(); r != nil {
			c.recovered = r
		}
	}()
	c.calls++
	c.fn(result)
}

// SumSquare runs the C driver, which computes a*a + b*b and calls fn with the
// result through an exported Go trampoline. The user data pointer handed to C
// is an opaque registry token that C passes back untouched. It returns how
// many times C invoked the callback.
func SumSquare(a, b int32, fn func(result int32)) (int, error) {
	call := &sumSquareCall{fn: fn}
	h, ctx := put(call)
	defer del(h)

	C.native_sum_square_go(C.int(a), C.int(b), ctx)

	if call.recovered != nil {
		return call.calls, &CallbackPanic{Value: call.recovered}
	}
	return call.calls, nil
}
