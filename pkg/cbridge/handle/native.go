package handle

import (
	"fmt"

	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/heap"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/internal/backend"
)

// ErrNotBuilt reports that the native store is unavailable in this build.
var ErrNotBuilt = backend.ErrNotBuilt

// nativeStore keeps each record in C memory. The table holds the C
// pointers; callers only ever see handles.
type nativeStore struct {
	t *table[uintptr]
}

// NewNative returns a Store whose records are C objects. It fails with
// ErrNotBuilt when the binary was built without cgo.
func NewNative(opts ...Option) (Store, error) {
	if !backend.Built() {
		return nil, ErrNotBuilt
	}
	o := buildOptions(opts)
	return &nativeStore{t: newTable[uintptr]("native", o.logger)}, nil
}

func (s *nativeStore) Create(info int32) Handle {
	p := backend.ObjectNew()
	if p == 0 {
		panic(fmt.Errorf("handle: create native object: %w", heap.ErrOutOfMemory))
	}
	backend.ObjectSetInfo(p, info)
	return s.t.insert(p)
}

func (s *nativeStore) Info(h Handle) int32 {
	var info int32
	s.t.with("inspect", h, func(sl *slot[uintptr]) { info = backend.ObjectInfo(sl.val) })
	return info
}

func (s *nativeStore) SetInfo(h Handle, info int32) {
	s.t.with("mutate", h, func(sl *slot[uintptr]) { backend.ObjectSetInfo(sl.val, info) })
}

func (s *nativeStore) Destroy(h Handle) {
	p := s.t.remove("destroy", h, 0)
	backend.ObjectFree(p)
}

func (s *nativeStore) SizeOf() uintptr { return backend.ObjectSize() }

func (s *nativeStore) APIVersion() int { return backend.APIVersion() }

func (s *nativeStore) Len() int { return s.t.len() }
