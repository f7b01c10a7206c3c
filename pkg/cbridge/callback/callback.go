package callback

import (
	"errors"
	"fmt"

	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/internal/backend"
)

// Func is the callback signature (result, context) -> void.
type Func func(result int32, ctx any)

// Compute combines two inputs into the callback's result.
type Compute func(a, b int32) int32

// ErrNilCallback reports a missing callback. Nothing is invoked.
var ErrNilCallback = errors.New("callback: nil callback")

// ErrNotBuilt reports that the Native invoker is unavailable in this build.
var ErrNotBuilt = backend.ErrNotBuilt

// SumSquare returns a*a + b*b with int32 wrapping.
func SumSquare(a, b int32) int32 {
	return a*a + b*b
}

// Invoke computes compute(a, b) and calls cb once with the result and ctx
// before returning. A nil compute means SumSquare.
func Invoke(a, b int32, compute Compute, cb Func, ctx any) error {
	if cb == nil {
		return ErrNilCallback
	}
	if compute == nil {
		compute = SumSquare
	}
	cb(compute(a, b), ctx)
	return nil
}

// Invoker runs the sum-of-squares driver.
type Invoker interface {
	Invoke(a, b int32, cb Func, ctx any) error
}

// Go is the pure Go invoker.
type Go struct {
	// Compute defaults to SumSquare.
	Compute Compute
}

func (g Go) Invoke(a, b int32, cb Func, ctx any) error {
	return Invoke(a, b, g.Compute, cb, ctx)
}

// Native invokes through the C driver.
type Native struct{}

// NewNative returns the C-backed invoker, or ErrNotBuilt without cgo.
func NewNative() (Native, error) {
	if !backend.Built() {
		return Native{}, ErrNotBuilt
	}
	return Native{}, nil
}

// Invoke hands cb to C. A panic in cb is stopped before it reaches the C
// frames and raised again here once C has returned.
func (Native) Invoke(a, b int32, cb Func, ctx any) error {
	if cb == nil {
		return ErrNilCallback
	}
	calls, err := backend.SumSquare(a, b, func(result int32) { cb(result, ctx) })
	var cp *backend.CallbackPanic
	if errors.As(err, &cp) {
		panic(cp.Value)
	}
	if err != nil {
		return err
	}
	if calls != 1 {
		return fmt.Errorf("callback: native driver invoked the callback %d times", calls)
	}
	return nil
}

func hook(result int32, ctx any) {
	ctx.(func(int32))(result)
}

// Closure splits fn into a plain callback and a context, the way a closure
// is passed through a C function pointer and its user data.
func Closure(fn func(result int32)) (Func, any) {
	return hook, fn
}

// Recorder accumulates the results it is called with.
type Recorder struct {
	Total int32
	Calls int
}

// Add records one result.
func (r *Recorder) Add(result int32) {
	r.Total += result
	r.Calls++
}

// Record is a Func that expects a *Recorder as its context.
func Record(result int32, ctx any) {
	ctx.(*Recorder).Add(result)
}
