package handle

import (
	"context"
	"fmt"
	"sync"

	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/contract"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/logging"
)

// Handle is an opaque token: the low 32 bits index a slot, the high 32 bits
// carry the slot generation. The zero Handle is never issued.
type Handle uint64

// Invalid is the zero Handle.
const Invalid Handle = 0

// DefaultInfo is the info value of a record created without one.
const DefaultInfo int32 = 0

// APIVersion is the version of the handle accessor API.
const APIVersion = 0

func pack(index, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(index))
}

func (h Handle) index() uint32 { return uint32(h) }

func (h Handle) generation() uint32 { return uint32(h >> 32) }

func (h Handle) String() string {
	return fmt.Sprintf("handle(%d@%d)", h.index(), h.generation())
}

// Store is the accessor surface of an opaque record. The record layout stays
// behind it.
type Store interface {
	// Create allocates a record holding info. It never fails; exhaustion of
	// the backing allocator panics.
	Create(info int32) Handle
	Info(h Handle) int32
	SetInfo(h Handle, info int32)
	// Destroy releases the record. It must be called exactly once.
	Destroy(h Handle)
	// SizeOf reports the storage size of one record.
	SizeOf() uintptr
	APIVersion() int
	// Len reports the number of live handles.
	Len() int
}

type options struct {
	logger logging.Logger
}

// Option configures a Store.
type Option func(*options)

// WithLogger sets the logger used to report violations before they are
// raised.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = logging.Ensure(o.logger)
	return o
}

type slot[T any] struct {
	gen  uint32
	live bool
	val  T
}

// table maps handles to slots and recycles freed slots. Every lookup checks
// the generation, so stale handles never alias a recycled slot.
type table[T any] struct {
	mu     sync.Mutex
	name   string
	logger logging.Logger
	slots  []slot[T]
	free   []uint32
	live   int
}

func newTable[T any](name string, logger logging.Logger) *table[T] {
	return &table[T]{name: name, logger: logger.With("store", name)}
}

func (t *table[T]) insert(v T) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		idx = uint32(len(t.slots))
		t.slots = append(t.slots, slot[T]{gen: 1})
	}
	s := &t.slots[idx]
	s.live = true
	s.val = v
	t.live++
	return pack(idx, s.gen)
}

// with runs fn on the live slot h refers to, or raises.
func (t *table[T]) with(op string, h Handle, fn func(s *slot[T])) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.resolve(op, h))
}

// remove retires the slot h refers to and returns its value. poison replaces
// the stored value.
func (t *table[T]) remove(op string, h Handle, poison T) T {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.resolve(op, h)
	v := s.val
	s.val = poison
	s.live = false
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	t.free = append(t.free, h.index())
	t.live--
	return v
}

// resolve returns the slot for h. Callers hold t.mu.
func (t *table[T]) resolve(op string, h Handle) *slot[T] {
	idx := h.index()
	if h == Invalid || int(idx) >= len(t.slots) {
		t.violation(contract.ForeignPointer, op, h)
	}
	s := &t.slots[idx]
	if s.live && s.gen == h.generation() {
		return s
	}
	if h.generation() < s.gen {
		if op == "destroy" {
			t.violation(contract.DoubleFree, op, h)
		}
		t.violation(contract.UseAfterDestroy, op, h)
	}
	t.violation(contract.ForeignPointer, op, h)
	return nil
}

func (t *table[T]) violation(kind contract.Kind, op string, h Handle) {
	t.logger.Error(context.Background(), "handle contract violation",
		"kind", kind.String(), "op", op, "handle", h.String())
	contract.Raise(kind, "handle."+op, "%s store: %s", t.name, h)
}

func (t *table[T]) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live
}
