package layout

import (
	"fmt"

	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/heap"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/internal/backend"
)

// NewStudent allocates a zeroed record in h. Release it with FreeStudent.
func NewStudent(h heap.Heap) (heap.Ptr, error) {
	return storeNew(h, Student{})
}

// NewAlice allocates the canned Alice record in h.
func NewAlice(h heap.Heap) (heap.Ptr, error) {
	return storeNew(h, Alice())
}

func storeNew(h heap.Heap, s Student) (heap.Ptr, error) {
	p, err := h.Alloc(uint32(StudentLayout.Size))
	if err != nil {
		return heap.Null, fmt.Errorf("layout: allocate student: %w", err)
	}
	if err := h.Store(p, MarshalStudent(s)); err != nil {
		h.Free(p)
		return heap.Null, err
	}
	return p, nil
}

// LoadStudent copies the record at p out of h.
func LoadStudent(h heap.Heap, p heap.Ptr) (Student, error) {
	b, err := h.Load(p, uint32(StudentLayout.Size))
	if err != nil {
		return Student{}, err
	}
	return UnmarshalStudent(b)
}

// StoreStudent writes s over the record at p.
func StoreStudent(h heap.Heap, p heap.Ptr, s Student) error {
	return h.Store(p, MarshalStudent(s))
}

// FreeStudent releases a record allocated by NewStudent or NewAlice. A Null
// pointer is ignored.
func FreeStudent(h heap.Heap, p heap.Ptr) {
	h.Free(p)
}

// FillAt populates the record at p in place. On a native heap the C side
// writes the fields directly into the caller's storage.
func FillAt(h heap.Heap, p heap.Ptr) error {
	if err := checkRecord(h, p); err != nil {
		return err
	}
	if addr, ok := heap.Native(h, p); ok {
		backend.StudentFill(addr)
		return nil
	}
	s, err := LoadStudent(h, p)
	if err != nil {
		return err
	}
	Fill(&s)
	return StoreStudent(h, p, s)
}

// DescribeAt renders the record at p. On a native heap the C side renders
// it into a bounded buffer that is copied before returning.
func DescribeAt(h heap.Heap, p heap.Ptr) (string, error) {
	if err := checkRecord(h, p); err != nil {
		return "", err
	}
	if addr, ok := heap.Native(h, p); ok {
		return backend.StudentDescribe(addr), nil
	}
	s, err := LoadStudent(h, p)
	if err != nil {
		return "", err
	}
	return Describe(s), nil
}

// checkRecord rejects p unless it is a live allocation large enough for a
// Student. The C side reads and writes the full record unchecked.
func checkRecord(h heap.Heap, p heap.Ptr) error {
	n, err := h.Len(p)
	if err != nil {
		return err
	}
	if uintptr(n) < StudentLayout.Size {
		return fmt.Errorf("layout: %d-byte block holds no %d-byte student: %w", n, StudentLayout.Size, heap.ErrOutOfBounds)
	}
	return nil
}
