package contract

import (
	"errors"
	"fmt"
)

// Kind classifies a contract violation.
type Kind int

const (
	// DoubleFree reports a second release of the same allocation or handle.
	DoubleFree Kind = iota + 1
	// UseAfterDestroy reports access through a handle that was destroyed.
	UseAfterDestroy
	// WrongAllocator reports a release through an allocator that does not
	// own the allocation.
	WrongAllocator
	// ForeignPointer reports a pointer or handle this side never handed out.
	ForeignPointer
	// UnwindAcrossBoundary reports a panic that reached an exported entry
	// point. The guard stops it there and reports it under this kind.
	UnwindAcrossBoundary
	// LayoutMismatch reports disagreement on a struct layout between sides.
	LayoutMismatch
)

func (k Kind) String() string {
	switch k {
	case DoubleFree:
		return "double free"
	case UseAfterDestroy:
		return "use after destroy"
	case WrongAllocator:
		return "wrong allocator"
	case ForeignPointer:
		return "foreign pointer"
	case UnwindAcrossBoundary:
		return "unwind across boundary"
	case LayoutMismatch:
		return "layout mismatch"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrViolation is matched by every *Violation through errors.Is.
var ErrViolation = errors.New("cbridge: contract violation")

// Violation describes a broken boundary contract.
type Violation struct {
	Kind   Kind
	Op     string
	Detail string
}

func (v *Violation) Error() string {
	if v.Detail == "" {
		return fmt.Sprintf("cbridge: contract violation in %s: %s", v.Op, v.Kind)
	}
	return fmt.Sprintf("cbridge: contract violation in %s: %s: %s", v.Op, v.Kind, v.Detail)
}

// Is lets errors.Is(v, ErrViolation) succeed.
func (v *Violation) Is(target error) bool {
	return target == ErrViolation
}

// Raise panics with a *Violation. It never returns.
func Raise(kind Kind, op, format string, args ...any) {
	panic(&Violation{Kind: kind, Op: op, Detail: fmt.Sprintf(format, args...)})
}

// FromPanic extracts a *Violation from a recovered panic value.
func FromPanic(r any) (*Violation, bool) {
	switch v := r.(type) {
	case *Violation:
		return v, true
	case error:
		var viol *Violation
		if errors.As(v, &viol) {
			return viol, true
		}
	}
	return nil, false
}

// Catch runs fn and returns the violation it raised, if any. Panics that are
// not violations are re-raised. It is meant for tests and diagnostics that
// deliberately exercise a violation.
func Catch(fn func()) (v *Violation) {
	defer func() {
		if r := recover(); r != nil {
			viol, ok := FromPanic(r)
			if !ok {
				panic(r)
			}
			v = viol
		}
	}()
	fn()
	return nil
}
