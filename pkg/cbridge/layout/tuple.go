package layout

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrSize reports a buffer whose length does not match the layout.
var ErrSize = errors.New("layout: buffer size does not match layout")

// Tuple is a count and a flag, passed by value.
type Tuple struct {
	Count uint32
	Flag  bool
}

// TupleLayout is the frozen C layout of Tuple.
var TupleLayout = Calculator{}.Struct(
	Uint32.Named("integer"),
	Bool.Named("boolean"),
)

// MarshalTuple encodes t in TupleLayout. Padding bytes are zero.
func MarshalTuple(t Tuple) []byte {
	b := make([]byte, TupleLayout.Size)
	binary.NativeEndian.PutUint32(b[TupleLayout.Offsets[0]:], t.Count)
	if t.Flag {
		b[TupleLayout.Offsets[1]] = 1
	}
	return b
}

// UnmarshalTuple decodes a tuple encoded in TupleLayout.
func UnmarshalTuple(b []byte) (Tuple, error) {
	if uintptr(len(b)) != TupleLayout.Size {
		return Tuple{}, fmt.Errorf("tuple: got %d bytes, want %d: %w", len(b), TupleLayout.Size, ErrSize)
	}
	return Tuple{
		Count: binary.NativeEndian.Uint32(b[TupleLayout.Offsets[0]:]),
		Flag:  b[TupleLayout.Offsets[1]] != 0,
	}, nil
}

// PassByValue sends t through its wire form and back. The result equals t
// field for field.
func PassByValue(t Tuple) Tuple {
	out, err := UnmarshalTuple(MarshalTuple(t))
	if err != nil {
		panic(err)
	}
	return out
}

// HandleTuple is the documented by-value transformation: the count is
// incremented (wrapping) and the flag negated.
func HandleTuple(t Tuple) Tuple {
	in := PassByValue(t)
	return Tuple{Count: in.Count + 1, Flag: !in.Flag}
}

// SumOfEven sums the even elements of a borrowed array. The sum wraps like
// C int arithmetic.
func SumOfEven(xs []int32) int32 {
	var sum int32
	for _, x := range xs {
		if x%2 == 0 {
			sum += x
		}
	}
	return sum
}

// Fibonacci returns the index-th Fibonacci number, with Fibonacci(0),
// Fibonacci(1) and Fibonacci(2) all 1. The result wraps like C unsigned
// arithmetic.
func Fibonacci(index uint32) uint32 {
	a, b := uint32(1), uint32(1)
	for i := uint32(2); i < index; i++ {
		a, b = b, a+b
	}
	return b
}
