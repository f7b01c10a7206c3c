package layout_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/contract"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/heap"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/internal/backend"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/layout"
)

func TestPassByValuePreservesFields(t *testing.T) {
	for _, in := range []layout.Tuple{{Count: 10, Flag: true}, {}, {Count: math.MaxUint32}} {
		assert.Equal(t, in, layout.PassByValue(in))
	}
}

func TestHandleTuple(t *testing.T) {
	assert.Equal(t, layout.Tuple{Count: 11, Flag: false}, layout.HandleTuple(layout.Tuple{Count: 10, Flag: true}))
	assert.Equal(t, layout.Tuple{Count: 0, Flag: true}, layout.HandleTuple(layout.Tuple{Count: math.MaxUint32}))
}

func TestTupleWireForm(t *testing.T) {
	b := layout.MarshalTuple(layout.Tuple{Count: 10, Flag: true})
	require.Len(t, b, 8)
	assert.Equal(t, byte(1), b[4])
	assert.Equal(t, []byte{0, 0, 0}, b[5:], "padding must be zero")

	_, err := layout.UnmarshalTuple(b[:7])
	assert.ErrorIs(t, err, layout.ErrSize)
}

func TestFillAndDescribe(t *testing.T) {
	var s layout.Student
	layout.Fill(&s)
	assert.Equal(t, "num=2 total=212 name=Bob scores=[60.6 70.7 80.8] gender=boy", layout.Describe(s))
	assert.Equal(t, float32(70.7), s.Scores[1])

	alice := layout.Alice()
	before := alice
	assert.Equal(t, "num=1 total=280 name=Alice scores=[92.5 87.5 90.0] gender=girl", layout.Describe(alice))
	assert.Equal(t, before, alice)
}

func TestStudentRoundTripKeepsFloatBits(t *testing.T) {
	s := layout.NewStudentRecord(7, 300, "Carol", []float32{0.1, float32(math.Inf(1)), -0})
	s.Gender = layout.Girl
	b := layout.MarshalStudent(s)
	require.Len(t, b, 44)

	got, err := layout.UnmarshalStudent(b)
	require.NoError(t, err)
	assert.Equal(t, s, got)
	assert.Equal(t, math.Float32bits(0.1), math.Float32bits(got.Scores[0]))
}

func TestNewStudentRecordTruncates(t *testing.T) {
	s := layout.NewStudentRecord(1, 2, "abcdefghijklmnopqrstuvwxyz", []float32{1, 2, 3, 4, 5})
	assert.Equal(t, "abcdefghijklmnopqrs", s.NameString())
	assert.Equal(t, byte(0), s.Name[layout.NameCap-1])
	assert.Equal(t, [3]float32{1, 2, 3}, s.Scores)
}

func TestSumOfEven(t *testing.T) {
	assert.Equal(t, int32(0), layout.SumOfEven(nil))
	assert.Equal(t, int32(12), layout.SumOfEven([]int32{1, 2, 3, 4, 5, 6}))
	assert.Equal(t, int32(-6), layout.SumOfEven([]int32{-2, -4, -3}))
}

func openHeaps(t *testing.T) map[string]heap.Heap {
	t.Helper()
	hs := map[string]heap.Heap{"go": heap.NewGo()}
	w, err := heap.NewWasm(context.Background())
	require.NoError(t, err)
	hs["wasm"] = w
	if n, err := heap.NewNative(); err == nil {
		hs["native"] = n
	}
	for _, h := range hs {
		t.Cleanup(func() { _ = h.Close() })
	}
	return hs
}

func TestStudentByHandle(t *testing.T) {
	for name, h := range openHeaps(t) {
		t.Run(name, func(t *testing.T) {
			p, err := layout.NewStudent(h)
			require.NoError(t, err)
			s, err := layout.LoadStudent(h, p)
			require.NoError(t, err)
			assert.Equal(t, layout.Student{}, s)

			require.NoError(t, layout.FillAt(h, p))
			desc, err := layout.DescribeAt(h, p)
			require.NoError(t, err)
			assert.Equal(t, "num=2 total=212 name=Bob scores=[60.6 70.7 80.8] gender=boy", desc)

			var want layout.Student
			layout.Fill(&want)
			got, err := layout.LoadStudent(h, p)
			require.NoError(t, err)
			assert.Equal(t, want, got, "in-place fill must match the Go rendition bit for bit")

			layout.FreeStudent(h, p)
			layout.FreeStudent(h, heap.Null)

			v := contract.Catch(func() { layout.FreeStudent(h, p) })
			require.NotNil(t, v)
			assert.Equal(t, contract.DoubleFree, v.Kind)
			assert.Equal(t, 0, h.Stats().Live)
		})
	}
}

func TestUndersizedBlockIsNotAStudent(t *testing.T) {
	for name, h := range openHeaps(t) {
		t.Run(name, func(t *testing.T) {
			p, err := h.Alloc(4)
			require.NoError(t, err)
			defer h.Free(p)

			assert.ErrorIs(t, layout.FillAt(h, p), heap.ErrOutOfBounds)
			_, err = layout.DescribeAt(h, p)
			assert.ErrorIs(t, err, heap.ErrOutOfBounds)

			got, err := h.Load(p, 4)
			require.NoError(t, err)
			assert.Equal(t, make([]byte, 4), got, "rejected fill must not touch the block")
		})
	}
}

func TestAliceByHandle(t *testing.T) {
	for name, h := range openHeaps(t) {
		t.Run(name, func(t *testing.T) {
			p, err := layout.NewAlice(h)
			require.NoError(t, err)
			defer layout.FreeStudent(h, p)

			desc, err := layout.DescribeAt(h, p)
			require.NoError(t, err)
			assert.Equal(t, layout.Describe(layout.Alice()), desc)
		})
	}
}

func TestNativeAliceMatchesGo(t *testing.T) {
	p, err := backend.StudentAlice()
	if errors.Is(err, backend.ErrNotBuilt) {
		t.Skip("native side not built (cgo disabled)")
	}
	require.NoError(t, err)
	defer backend.StudentFree(p)

	got, err := layout.UnmarshalStudent(backend.CopyOut(p, layout.StudentLayout.Size))
	require.NoError(t, err)
	assert.Equal(t, layout.Alice(), got)
}

func TestNativeTupleAgrees(t *testing.T) {
	if !backend.Built() {
		t.Skip("native side not built (cgo disabled)")
	}
	in := layout.Tuple{Count: 10, Flag: true}
	n, f := backend.HandleTuple(in.Count, in.Flag)
	assert.Equal(t, layout.HandleTuple(in), layout.Tuple{Count: n, Flag: f})
}

func TestVerify(t *testing.T) {
	err := layout.Verify()
	if errors.Is(err, layout.ErrNotBuilt) {
		t.Skip("native side not built (cgo disabled)")
	}
	require.NoError(t, err)
}

func TestFibonacci(t *testing.T) {
	want := []uint32{1, 1, 1, 2, 3, 5, 8, 13}
	for i, w := range want {
		assert.Equal(t, w, layout.Fibonacci(uint32(i)), "index %d", i)
	}
	assert.Equal(t, uint32(6765), layout.Fibonacci(20))
}
