package cbridge

import (
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/heap"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/logging"
)

// Config expresses the knobs of a Boundary.
type Config struct {
	// Heap selects the allocator behind handles and strings. Zero selects
	// the Go heap.
	Heap heap.Kind

	// HeapLimit caps the Go and wasm heaps in bytes. Zero keeps the heap
	// default.
	HeapLimit uint32

	// Debug verifies struct layouts against the C compiler on Open and
	// logs component lifecycle at debug level.
	Debug bool

	// Zeroize wipes secret buffers copied by scoped crypto contexts once an
	// operation completes.
	Zeroize bool

	// Logger receives diagnostics. Nil discards them.
	Logger logging.Logger

	// Abort overrides the abort handler used by the guard for contract
	// violations and allocation exhaustion at the boundary.
	Abort func(err error)
}

func (c Config) heapKind() heap.Kind {
	if c.Heap == 0 {
		return heap.KindGo
	}
	return c.Heap
}

func (c Config) heapOptions() []heap.Option {
	opts := []heap.Option{heap.WithLogger(c.Logger)}
	if c.HeapLimit > 0 {
		opts = append(opts, heap.WithLimit(c.HeapLimit))
	}
	return opts
}
