package result

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/contract"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/heap"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/logging"
)

// AbortExitCode is the status the default abort handler exits with, the
// status of a process killed by SIGABRT.
const AbortExitCode = 134

// Guard is the panic policy of exported entry points. The zero value logs
// nothing and aborts with AbortExitCode.
type Guard struct {
	Logger logging.Logger
	// Abort handles failures that must not be turned into a Sentinel:
	// contract violations and allocation exhaustion. Nil means log and
	// exit with AbortExitCode. When Abort returns, the call yields its
	// fallback value.
	Abort func(err error)
}

func (g *Guard) logger() logging.Logger {
	if g == nil {
		return logging.Nop()
	}
	return logging.Ensure(g.Logger)
}

// Fatal reports whether err must abort the process at the boundary.
func Fatal(err error) bool {
	return errors.Is(err, contract.ErrViolation) || errors.Is(err, heap.ErrOutOfMemory)
}

func (g *Guard) abort(op string, err error) {
	if g != nil && g.Abort != nil {
		g.Abort(err)
		return
	}
	g.logger().Error(context.Background(), "aborting at boundary", "op", op, "error", err)
	fmt.Fprintf(os.Stderr, "cbridge: fatal error in %s: %v\n", op, err)
	os.Exit(AbortExitCode)
}

// Recover must be deferred directly by an exported entry point. It stops any
// panic from unwinding further: fatal failures go to the abort handler and
// the rest are logged. fail runs in both cases so the caller can set its
// fallback return value.
//
//	func export() (ret *C.char) {
//		defer guard.Recover("export", func() { ret = nil })
//		...
//	}
func (g *Guard) Recover(op string, fail func()) {
	r := recover()
	if r == nil {
		return
	}
	if fail != nil {
		fail()
	}

	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", r)
	}
	if v, isViolation := contract.FromPanic(r); isViolation {
		err = v
	}
	if Fatal(err) {
		g.abort(op, err)
		return
	}
	stopped := &contract.Violation{Kind: contract.UnwindAcrossBoundary, Op: op, Detail: err.Error()}
	g.logger().Warn(context.Background(), "panic stopped at boundary",
		"op", op, "kind", stopped.Kind.String(), "error", stopped)
}

// Call runs fn under the guard. A panic becomes Sentinel or aborts.
func (g *Guard) Call(op string, fn func() Code) (code Code) {
	defer g.Recover(op, func() { code = Sentinel })
	return fn()
}

// NoPanic runs fn and returns OK, or Sentinel when fn panicked with
// anything that is not fatal.
func (g *Guard) NoPanic(fn func()) Code {
	return g.Call("no_panic", func() Code {
		fn()
		return OK
	})
}
