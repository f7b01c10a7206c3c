package layout

import (
	"fmt"

	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/contract"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/internal/backend"
)

// ErrNotBuilt reports that there is no C compiler layout to compare with.
var ErrNotBuilt = backend.ErrNotBuilt

// Verify checks TupleLayout and StudentLayout against the layouts the C
// compiler chose. A disagreement is returned as a *contract.Violation of
// kind LayoutMismatch.
func Verify() error {
	checks := []struct {
		name   string
		layout Layout
		native func() (backend.StructLayout, error)
	}{
		{"tuple", TupleLayout, backend.TupleLayout},
		{"student", StudentLayout, backend.StudentLayout},
	}
	for _, c := range checks {
		native, err := c.native()
		if err != nil {
			return err
		}
		if err := compare(c.name, c.layout, native); err != nil {
			return err
		}
	}
	return nil
}

func compare(name string, l Layout, native backend.StructLayout) error {
	mismatch := func(format string, args ...any) error {
		return &contract.Violation{
			Kind:   contract.LayoutMismatch,
			Op:     "layout.Verify",
			Detail: name + ": " + fmt.Sprintf(format, args...),
		}
	}
	if l.Size != native.Size {
		return mismatch("size %d, C has %d", l.Size, native.Size)
	}
	if l.Align != native.Align {
		return mismatch("align %d, C has %d", l.Align, native.Align)
	}
	for i, f := range l.Fields {
		off, ok := native.Offsets[f.Name]
		if !ok {
			return mismatch("field %s missing on the C side", f.Name)
		}
		if off != l.Offsets[i] {
			return mismatch("field %s at %d, C has %d", f.Name, l.Offsets[i], off)
		}
	}
	return nil
}
