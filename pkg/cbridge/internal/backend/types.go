package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrNotBuilt reports that the native side was not linked into the
	// current binary. Callers can use this to fall back to the Go heap.
	ErrNotBuilt = errors.New("cbridge/internal/backend: native side not built")

	// ErrAlloc reports that the C allocator returned NULL.
	ErrAlloc = errors.New("cbridge/internal/backend: allocation failed")
)

// PoisonByte is written over C memory before it is freed.
const PoisonByte = 0xDD

// StructLayout reports what the C compiler decided for a struct.
type StructLayout struct {
	Size    uintptr
	Align   uintptr
	Offsets map[string]uintptr
}

// CallbackPanic carries a panic recovered inside a callback that C invoked.
// The panic is stopped before it unwinds through C frames and handed back to
// the Go caller once C has returned.
type CallbackPanic struct {
	Value any
}

func (p *CallbackPanic) Error() string {
	return fmt.Sprintf("callback panicked: %v", p.Value)
}
