package cstring

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/contract"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/heap"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/logging"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/result"
)

var (
	// ErrNullString reports a null string where text is required.
	ErrNullString = errors.New("cstring: null string")
	// ErrInvalidUTF8 reports text that is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("cstring: invalid UTF-8")
	// ErrEmbeddedNUL reports a seed that cannot be represented as a C string.
	ErrEmbeddedNUL = errors.New("cstring: embedded NUL byte")
)

const (
	pingSeed  = "ping"
	pingReply = "ping - pong"
)

// Str is a transferred string. The zero Str is the null string.
type Str struct {
	owner *Bridge
	ptr   heap.Ptr
}

// IsNull reports whether s is the null string.
func (s Str) IsNull() bool { return s.ptr == heap.Null }

// Ptr returns the address of the first byte in the owner's heap.
func (s Str) Ptr() heap.Ptr { return s.ptr }

// Bridge owns the strings it allocates in its heap.
type Bridge struct {
	mu       sync.Mutex
	id       uuid.UUID
	heap     heap.Heap
	logger   logging.Logger
	live     map[heap.Ptr]struct{}
	released map[heap.Ptr]struct{}
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger used to report violations before they are
// raised.
func WithLogger(l logging.Logger) Option {
	return func(b *Bridge) { b.logger = l }
}

// New returns a bridge allocating in h.
func New(h heap.Heap, opts ...Option) *Bridge {
	b := &Bridge{
		id:       uuid.New(),
		heap:     h,
		live:     make(map[heap.Ptr]struct{}),
		released: make(map[heap.Ptr]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = logging.Ensure(b.logger).With("bridge_id", b.id.String())
	return b
}

// ID identifies the bridge in diagnostics.
func (b *Bridge) ID() uuid.UUID { return b.id }

// Heap returns the heap the bridge allocates in.
func (b *Bridge) Heap() heap.Heap { return b.heap }

// Generate returns a new string owned by b. The seed "ping" yields
// "ping - pong"; any other seed is echoed.
func (b *Bridge) Generate(seed string) (Str, error) {
	if seed == pingSeed {
		seed = pingReply
	}
	return b.alloc(seed)
}

func (b *Bridge) alloc(text string) (Str, error) {
	if strings.IndexByte(text, 0) >= 0 {
		return Str{}, ErrEmbeddedNUL
	}
	p, err := b.heap.Alloc(uint32(len(text) + 1))
	if err != nil {
		return Str{}, fmt.Errorf("cstring: allocate %d bytes: %w", len(text)+1, err)
	}
	if err := b.heap.Store(p, append([]byte(text), 0)); err != nil {
		b.heap.Free(p)
		return Str{}, err
	}
	b.mu.Lock()
	b.live[p] = struct{}{}
	delete(b.released, p)
	b.mu.Unlock()
	return Str{owner: b, ptr: p}, nil
}

// Read copies the text of s. It borrows s.
func (b *Bridge) Read(s Str) (string, error) {
	raw, err := s.bytes()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (s Str) bytes() ([]byte, error) {
	if s.IsNull() || s.owner == nil {
		return nil, ErrNullString
	}
	h := s.owner.heap
	n, err := h.Len(s.ptr)
	if err != nil {
		return nil, err
	}
	raw, err := h.Load(s.ptr, n)
	if err != nil {
		return nil, err
	}
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return raw, nil
}

// Len returns the number of Unicode code points in s. It borrows s.
func (b *Bridge) Len(s Str) (int, error) {
	raw, err := s.bytes()
	if err != nil {
		return 0, err
	}
	if !utf8.Valid(raw) {
		return 0, ErrInvalidUTF8
	}
	return utf8.RuneCount(raw), nil
}

// Consume is Len encoded for the boundary: it returns result.Sentinel for a
// null string or invalid UTF-8.
func (b *Bridge) Consume(s Str) int32 {
	n, err := b.Len(s)
	if err != nil {
		return int32(result.Sentinel)
	}
	return int32(n)
}

// Count is Consume for text that never lived in a bridge, such as a C
// string borrowed for the duration of a call. The caller has already
// rejected null.
func Count(text []byte) int32 {
	if !utf8.Valid(text) {
		return int32(result.Sentinel)
	}
	return int32(utf8.RuneCount(text))
}

// Transform takes ownership of s and returns a new upper-cased string owned
// by b. s is released through its owning bridge once the copy exists, and
// the caller must not use it afterwards. A null s is rejected and nothing is
// released.
func (b *Bridge) Transform(s Str) (Str, error) {
	text, err := b.Read(s)
	if err != nil {
		return Str{}, err
	}
	out, err := b.alloc(strings.ToUpper(text))
	if err != nil {
		return Str{}, err
	}
	s.owner.Release(s)
	return out, nil
}

// Release frees a string produced by b. Releasing the null string is a
// no-op.
func (b *Bridge) Release(s Str) {
	if s.IsNull() {
		return
	}
	if s.owner != b {
		b.violation(contract.WrongAllocator, s.ptr, "string belongs to another bridge")
	}
	b.mu.Lock()
	if _, ok := b.live[s.ptr]; !ok {
		_, wasReleased := b.released[s.ptr]
		b.mu.Unlock()
		if wasReleased {
			b.violation(contract.DoubleFree, s.ptr, "string already released")
		}
		b.violation(contract.WrongAllocator, s.ptr, "string was not produced by this bridge")
	}
	delete(b.live, s.ptr)
	b.released[s.ptr] = struct{}{}
	b.mu.Unlock()

	b.heap.Free(s.ptr)
}

// Adopt turns an address received from the other side back into a Str
// owned by b. The address is not checked until the string is used or
// released.
func (b *Bridge) Adopt(p heap.Ptr) Str {
	if p == heap.Null {
		return Str{}
	}
	return Str{owner: b, ptr: p}
}

// Live returns the number of strings produced by b and not yet released.
func (b *Bridge) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.live)
}

// Stats returns the allocation counter of the bridge's heap.
func (b *Bridge) Stats() heap.Stats {
	return b.heap.Stats()
}

func (b *Bridge) violation(kind contract.Kind, p heap.Ptr, detail string) {
	b.logger.Error(context.Background(), "string contract violation",
		"kind", kind.String(), "ptr", uint64(p))
	contract.Raise(kind, "cstring.Release", "%s (bridge %s)", detail, b.id)
}
