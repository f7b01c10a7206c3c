package heap

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/internal/backend"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/logging"
)

// Ptr is an address in a heap. Its meaning is private to the heap that
// produced it.
type Ptr uintptr

// Null is the absent pointer.
const Null Ptr = 0

// PoisonByte fills freed memory in heaps that support poisoning.
const PoisonByte = 0xDD

// Kind names the allocator behind a Heap.
type Kind int

const (
	KindGo Kind = iota + 1
	KindWasm
	KindNative
)

func (k Kind) String() string {
	switch k {
	case KindGo:
		return "go"
	case KindWasm:
		return "wasm"
	case KindNative:
		return "native"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind parses the names returned by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "go", "":
		return KindGo, nil
	case "wasm":
		return KindWasm, nil
	case "native", "c":
		return KindNative, nil
	default:
		return 0, fmt.Errorf("heap: unknown kind %q", s)
	}
}

var (
	// ErrOutOfMemory reports allocation exhaustion. The boundary treats it
	// as fatal.
	ErrOutOfMemory = errors.New("heap: out of memory")
	// ErrNullPointer reports a Null pointer passed where memory is required.
	ErrNullPointer = errors.New("heap: null pointer")
	// ErrOutOfBounds reports an access past the end of an allocation.
	ErrOutOfBounds = errors.New("heap: access out of bounds")
	// ErrClosed reports use of a closed heap.
	ErrClosed = errors.New("heap: closed")
	// ErrNotBuilt reports that the native heap is unavailable in this build.
	ErrNotBuilt = backend.ErrNotBuilt
)

// Stats is the allocation counter of a heap.
type Stats struct {
	Allocs    uint64
	Frees     uint64
	Live      int
	LiveBytes uint64
}

// Heap is the manual allocate/free side of the boundary.
type Heap interface {
	// ID identifies the heap in diagnostics.
	ID() uuid.UUID
	Kind() Kind
	// Alloc reserves size bytes, zero-filled. A zero size still returns a
	// unique non-null pointer.
	Alloc(size uint32) (Ptr, error)
	// Free releases p. Free(Null) is a no-op.
	Free(p Ptr)
	// Len returns the requested size of the live allocation starting at p.
	Len(p Ptr) (uint32, error)
	// Load copies n bytes starting at p.
	Load(p Ptr, n uint32) ([]byte, error)
	// Store copies data to p.
	Store(p Ptr, data []byte) error
	Stats() Stats
	Close() error
}

const defaultLimit = 64 << 20

type options struct {
	limit  uint32
	logger logging.Logger
}

// Option configures a heap.
type Option func(*options)

// WithLimit caps the total bytes a Go or wasm heap may grow to.
func WithLimit(limit uint32) Option {
	return func(o *options) { o.limit = limit }
}

// WithLogger sets the logger used to report violations before they are
// raised.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{limit: defaultLimit}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = logging.Ensure(o.logger)
	return o
}
