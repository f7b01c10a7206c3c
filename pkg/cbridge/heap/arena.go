package heap

import (
	"bytes"
	"cmp"
	"context"
	"math"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/contract"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/logging"
)

const (
	alignment = 8
	// firstOffset keeps offset 0 free so it can stand for Null.
	firstOffset = alignment
	// minSplit is the smallest remainder worth keeping as a free block.
	minSplit = 2 * alignment
)

// memory is the growable byte region an arena allocates from.
type memory interface {
	size() uint32
	// grow makes at least n bytes addressable.
	grow(n uint32) bool
	read(off, n uint32) ([]byte, bool)
	write(off uint32, data []byte) bool
	close() error
}

type block struct {
	off  uint32
	size uint32
}

type allocation struct {
	size  uint32 // requested
	block uint32 // reserved, aligned
}

// arena is a first-fit allocator over a memory region. It backs both the Go
// heap and the wasm heap.
type arena struct {
	mu     sync.Mutex
	id     uuid.UUID
	kind   Kind
	mem    memory
	limit  uint32
	logger logging.Logger

	top   uint32
	free  []block // sorted by offset, neighbours merged
	live  map[uint32]allocation
	freed map[uint32]struct{}
	stats Stats

	closed bool
}

func newArena(kind Kind, mem memory, o options) *arena {
	return &arena{
		id:     uuid.New(),
		kind:   kind,
		mem:    mem,
		limit:  o.limit,
		logger: o.logger.With("heap", kind.String()),
		top:    firstOffset,
		live:   make(map[uint32]allocation),
		freed:  make(map[uint32]struct{}),
	}
}

func (a *arena) ID() uuid.UUID { return a.id }

func (a *arena) Kind() Kind { return a.kind }

func alignUp(n uint32) uint32 {
	return (n + alignment - 1) &^ (alignment - 1)
}

func (a *arena) Alloc(size uint32) (Ptr, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return Null, ErrClosed
	}
	if size > math.MaxUint32-alignment {
		return Null, ErrOutOfMemory
	}
	need := alignUp(max(size, 1))

	off, reserved, ok := a.takeFree(need)
	if ok {
		need = reserved
	} else {
		if uint64(a.top)+uint64(need) > uint64(a.limit) {
			return Null, ErrOutOfMemory
		}
		if a.top+need > a.mem.size() && !a.mem.grow(a.top+need) {
			return Null, ErrOutOfMemory
		}
		off = a.top
		a.top += need
	}

	// Recycled blocks carry poison; hand out zeroed memory like calloc.
	a.mem.write(off, make([]byte, need))
	delete(a.freed, off)
	a.live[off] = allocation{size: size, block: need}
	a.stats.Allocs++
	a.stats.Live++
	a.stats.LiveBytes += uint64(size)
	return Ptr(off), nil
}

// takeFree carves need bytes out of the first free block large enough and
// returns the offset and the reserved size.
func (a *arena) takeFree(need uint32) (uint32, uint32, bool) {
	for i, b := range a.free {
		if b.size < need {
			continue
		}
		if b.size-need >= minSplit {
			a.free[i] = block{off: b.off + need, size: b.size - need}
			return b.off, need, true
		}
		a.free = append(a.free[:i], a.free[i+1:]...)
		return b.off, b.size, true
	}
	return 0, 0, false
}

func (a *arena) Free(p Ptr) {
	if p == Null {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	off, alloc := a.lookup("free", p)
	delete(a.live, off)
	a.freed[off] = struct{}{}
	a.mem.write(off, bytes.Repeat([]byte{PoisonByte}, int(alloc.block)))
	a.release(block{off: off, size: alloc.block})
	a.stats.Frees++
	a.stats.Live--
	a.stats.LiveBytes -= uint64(alloc.size)
}

// release returns b to the free list, merging it with adjacent free blocks.
// A free block that ends at top is given back to the unallocated tail.
func (a *arena) release(b block) {
	i, _ := slices.BinarySearchFunc(a.free, b.off, func(f block, off uint32) int {
		return cmp.Compare(f.off, off)
	})
	if i < len(a.free) && b.off+b.size == a.free[i].off {
		b.size += a.free[i].size
		a.free = slices.Delete(a.free, i, i+1)
	}
	if i > 0 && a.free[i-1].off+a.free[i-1].size == b.off {
		i--
		b = block{off: a.free[i].off, size: a.free[i].size + b.size}
		a.free = slices.Delete(a.free, i, i+1)
	}
	if b.off+b.size == a.top {
		a.top = b.off
		return
	}
	a.free = slices.Insert(a.free, i, b)
}

// lookup resolves a live allocation or raises the matching violation.
// Callers hold a.mu.
func (a *arena) lookup(op string, p Ptr) (uint32, allocation) {
	if uint64(p) > math.MaxUint32 {
		a.violation(contract.ForeignPointer, op, p)
	}
	off := uint32(p)
	alloc, ok := a.live[off]
	if ok {
		return off, alloc
	}
	if _, wasFreed := a.freed[off]; wasFreed {
		if op == "free" {
			a.violation(contract.DoubleFree, op, p)
		}
		a.violation(contract.UseAfterDestroy, op, p)
	}
	a.violation(contract.ForeignPointer, op, p)
	return 0, allocation{}
}

func (a *arena) violation(kind contract.Kind, op string, p Ptr) {
	a.logger.Error(context.Background(), "heap contract violation",
		"kind", kind.String(), "op", op, "ptr", uint64(p), "heap_id", a.id.String())
	contract.Raise(kind, "heap."+op, "%s heap %s: pointer %#x", a.kind, a.id, uint64(p))
}

func (a *arena) Len(p Ptr) (uint32, error) {
	if p == Null {
		return 0, ErrNullPointer
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return 0, ErrClosed
	}
	_, alloc := a.lookup("len", p)
	return alloc.size, nil
}

func (a *arena) Load(p Ptr, n uint32) ([]byte, error) {
	if p == Null {
		return nil, ErrNullPointer
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil, ErrClosed
	}
	off, alloc := a.lookup("load", p)
	if n > alloc.size {
		return nil, ErrOutOfBounds
	}
	view, ok := a.mem.read(off, n)
	if !ok {
		return nil, ErrOutOfBounds
	}
	return bytes.Clone(view), nil
}

func (a *arena) Store(p Ptr, data []byte) error {
	if p == Null {
		return ErrNullPointer
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	off, alloc := a.lookup("store", p)
	if uint64(len(data)) > uint64(alloc.size) {
		return ErrOutOfBounds
	}
	if !a.mem.write(off, data) {
		return ErrOutOfBounds
	}
	return nil
}

func (a *arena) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

func (a *arena) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	if a.stats.Live > 0 {
		a.logger.Warn(context.Background(), "heap closed with live allocations",
			"live", a.stats.Live, "live_bytes", a.stats.LiveBytes, "heap_id", a.id.String())
	}
	return a.mem.close()
}
