package heap

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/contract"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/internal/backend"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/logging"
)

// nativeHeap allocates with C malloc. It keeps its own table of live pointers
// so a wrong-allocator or double free is caught before it reaches libc.
type nativeHeap struct {
	mu     sync.Mutex
	id     uuid.UUID
	logger logging.Logger
	live   map[Ptr]uint32
	freed  map[Ptr]struct{}
	stats  Stats
	closed bool
}

// NewNative returns a heap backed by the C allocator. It fails with
// ErrNotBuilt when the binary was built without cgo.
func NewNative(opts ...Option) (Heap, error) {
	if !backend.Built() {
		return nil, ErrNotBuilt
	}
	o := buildOptions(opts)
	return &nativeHeap{
		id:     uuid.New(),
		logger: o.logger.With("heap", KindNative.String()),
		live:   make(map[Ptr]uint32),
		freed:  make(map[Ptr]struct{}),
	}, nil
}

func (h *nativeHeap) ID() uuid.UUID { return h.id }

func (h *nativeHeap) Kind() Kind { return KindNative }

func (h *nativeHeap) Alloc(size uint32) (Ptr, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return Null, ErrClosed
	}
	p := Ptr(backend.Calloc(uintptr(max(size, 1))))
	if p == Null {
		return Null, ErrOutOfMemory
	}
	delete(h.freed, p)
	h.live[p] = size
	h.stats.Allocs++
	h.stats.Live++
	h.stats.LiveBytes += uint64(size)
	return p, nil
}

func (h *nativeHeap) Free(p Ptr) {
	if p == Null {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	size := h.lookup("free", p)
	delete(h.live, p)
	h.freed[p] = struct{}{}
	backend.Free(uintptr(p), uintptr(size))
	h.stats.Frees++
	h.stats.Live--
	h.stats.LiveBytes -= uint64(size)
}

func (h *nativeHeap) lookup(op string, p Ptr) uint32 {
	if size, ok := h.live[p]; ok {
		return size
	}
	kind := contract.ForeignPointer
	if _, wasFreed := h.freed[p]; wasFreed {
		kind = contract.UseAfterDestroy
		if op == "free" {
			kind = contract.DoubleFree
		}
	}
	h.logger.Error(context.Background(), "heap contract violation",
		"kind", kind.String(), "op", op, "heap_id", h.id.String())
	contract.Raise(kind, "heap."+op, "native heap %s: pointer %#x", h.id, uint64(p))
	return 0
}

func (h *nativeHeap) Len(p Ptr) (uint32, error) {
	if p == Null {
		return 0, ErrNullPointer
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lookup("len", p), nil
}

func (h *nativeHeap) Load(p Ptr, n uint32) ([]byte, error) {
	if p == Null {
		return nil, ErrNullPointer
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if n > h.lookup("load", p) {
		return nil, ErrOutOfBounds
	}
	return backend.CopyOut(uintptr(p), uintptr(n)), nil
}

func (h *nativeHeap) Store(p Ptr, data []byte) error {
	if p == Null {
		return ErrNullPointer
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if uint64(len(data)) > uint64(h.lookup("store", p)) {
		return ErrOutOfBounds
	}
	backend.CopyIn(uintptr(p), data)
	return nil
}

func (h *nativeHeap) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}

// Close marks the heap closed. Live allocations are reported, not freed: the
// owner of each pointer still has to release it.
func (h *nativeHeap) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	if h.stats.Live > 0 {
		h.logger.Warn(context.Background(), "heap closed with live allocations",
			"live", h.stats.Live, "live_bytes", h.stats.LiveBytes, "heap_id", h.id.String())
	}
	return nil
}

// Native exposes the raw C address of p for backend calls that hand the
// pointer to C code. It is only meaningful for KindNative heaps.
func Native(h Heap, p Ptr) (uintptr, bool) {
	if _, ok := h.(*nativeHeap); !ok {
		return 0, false
	}
	return uintptr(p), true
}
