package cbridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/callback"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/cstring"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/handle"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/heap"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/layout"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/logging"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/result"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/secp"
)

// Boundary owns one set of boundary components. Close it when done.
type Boundary struct {
	mu      sync.Mutex
	cfg     Config
	logger  logging.Logger
	heap    heap.Heap
	handles handle.Store
	strings *cstring.Bridge
	invoker callback.Invoker
	guard   *result.Guard
	closed  bool
}

// Open builds the components selected by cfg.
func Open(ctx context.Context, cfg Config) (*Boundary, error) {
	cfg.Logger = logging.Ensure(cfg.Logger)
	kind := cfg.heapKind()

	if cfg.Debug && kind == heap.KindNative {
		if err := layout.Verify(); err != nil {
			return nil, RemapError(err)
		}
	}

	h, err := openHeap(ctx, kind, cfg.heapOptions())
	if err != nil {
		return nil, RemapError(err)
	}

	b := &Boundary{
		cfg:     cfg,
		logger:  cfg.Logger.With("heap", kind.String(), "heap_id", h.ID().String()),
		heap:    h,
		strings: cstring.New(h, cstring.WithLogger(cfg.Logger)),
		guard:   &result.Guard{Logger: cfg.Logger, Abort: cfg.Abort},
	}

	if kind == heap.KindNative {
		store, err := handle.NewNative(handle.WithLogger(cfg.Logger))
		if err != nil {
			_ = h.Close()
			return nil, RemapError(err)
		}
		inv, err := callback.NewNative()
		if err != nil {
			_ = h.Close()
			return nil, RemapError(err)
		}
		b.handles, b.invoker = store, inv
	} else {
		b.handles = handle.NewArena(handle.WithLogger(cfg.Logger))
		b.invoker = callback.Go{}
	}

	if cfg.Debug {
		b.logger.Debug(ctx, "boundary opened")
	}
	return b, nil
}

func openHeap(ctx context.Context, kind heap.Kind, opts []heap.Option) (heap.Heap, error) {
	switch kind {
	case heap.KindGo:
		return heap.NewGo(opts...), nil
	case heap.KindWasm:
		return heap.NewWasm(ctx, opts...)
	case heap.KindNative:
		return heap.NewNative(opts...)
	default:
		return nil, fmt.Errorf("cbridge: unsupported heap %s", kind)
	}
}

// Heap returns the foreign heap.
func (b *Boundary) Heap() heap.Heap { return b.heap }

// Handles returns the handle store.
func (b *Boundary) Handles() handle.Store { return b.handles }

// Strings returns the string bridge.
func (b *Boundary) Strings() *cstring.Bridge { return b.strings }

// Invoker returns the callback invoker.
func (b *Boundary) Invoker() callback.Invoker { return b.invoker }

// Guard returns the panic guard for exported entry points.
func (b *Boundary) Guard() *result.Guard { return b.guard }

// Logger returns the boundary logger.
func (b *Boundary) Logger() logging.Logger { return b.logger }

// Secp returns a new scoped crypto context. The caller closes it; it does not
// outlive its own Close, whatever happens to the Boundary.
func (b *Boundary) Secp(flags secp.Flags) (*secp.Context, error) {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}
	return secp.NewContext(flags, secp.WithLogger(b.logger), secp.WithZeroize(b.cfg.Zeroize))
}

// Close releases the heap. Handles and strings still live are reported as
// leaks. The method returns ErrClosed when called twice.
func (b *Boundary) Close() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	b.closed = true

	ctx := context.Background()
	if n := b.handles.Len(); n > 0 {
		b.logger.Warn(ctx, "boundary closed with live handles", "handles", n)
	}
	if n := b.strings.Live(); n > 0 {
		b.logger.Warn(ctx, "boundary closed with live strings", "strings", n)
	}
	if b.cfg.Debug {
		s := b.heap.Stats()
		b.logger.Debug(ctx, "boundary closed", "allocs", s.Allocs, "frees", s.Frees)
	}
	return b.heap.Close()
}
