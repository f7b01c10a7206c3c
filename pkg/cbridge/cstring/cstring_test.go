package cstring_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/contract"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/cstring"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/heap"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/result"
)

func bridges(t *testing.T) map[string]*cstring.Bridge {
	t.Helper()
	w, err := heap.NewWasm(context.Background())
	require.NoError(t, err)
	out := map[string]*cstring.Bridge{
		"go":   cstring.New(heap.NewGo()),
		"wasm": cstring.New(w),
	}
	if n, err := heap.NewNative(); err == nil {
		out["native"] = cstring.New(n)
	}
	for _, b := range out {
		t.Cleanup(func() { _ = b.Heap().Close() })
	}
	return out
}

func TestGenerateConsumeIsStable(t *testing.T) {
	for name, b := range bridges(t) {
		t.Run(name, func(t *testing.T) {
			for _, seed := range []string{"ping", "hello", "", "héllo wörld"} {
				first, err := b.Generate(seed)
				require.NoError(t, err)
				second, err := b.Generate(seed)
				require.NoError(t, err)

				assert.Equal(t, b.Consume(first), b.Consume(second), seed)
				b.Release(first)
				b.Release(second)
			}
			stats := b.Stats()
			assert.Equal(t, stats.Allocs, stats.Frees, "every generated string released exactly once")
			assert.Equal(t, 0, b.Live())
		})
	}
}

func TestGenerateContent(t *testing.T) {
	b := cstring.New(heap.NewGo())
	pong, err := b.Generate("ping")
	require.NoError(t, err)
	defer b.Release(pong)

	text, err := b.Read(pong)
	require.NoError(t, err)
	assert.Equal(t, "ping - pong", text)
	assert.Equal(t, int32(11), b.Consume(pong))

	echo, err := b.Generate("héllo")
	require.NoError(t, err)
	defer b.Release(echo)
	text, err = b.Read(echo)
	require.NoError(t, err)
	assert.Equal(t, "héllo", text)
	assert.Equal(t, int32(5), b.Consume(echo))

	_, err = b.Generate("a\x00b")
	assert.ErrorIs(t, err, cstring.ErrEmbeddedNUL)
}

func TestNullStringRejected(t *testing.T) {
	b := cstring.New(heap.NewGo())
	var null cstring.Str

	assert.True(t, null.IsNull())
	assert.Equal(t, int32(result.Sentinel), b.Consume(null))
	_, err := b.Len(null)
	assert.ErrorIs(t, err, cstring.ErrNullString)
	_, err = b.Read(null)
	assert.ErrorIs(t, err, cstring.ErrNullString)
	_, err = b.Transform(null)
	assert.ErrorIs(t, err, cstring.ErrNullString)

	b.Release(null)
	assert.Zero(t, b.Stats().Allocs)
}

func TestTransformTakesOwnership(t *testing.T) {
	for name, b := range bridges(t) {
		t.Run(name, func(t *testing.T) {
			in, err := b.Generate("ownership")
			require.NoError(t, err)

			out, err := b.Transform(in)
			require.NoError(t, err)
			text, err := b.Read(out)
			require.NoError(t, err)
			assert.Equal(t, "OWNERSHIP", text)
			assert.Equal(t, 1, b.Live())

			v := contract.Catch(func() { b.Release(in) })
			require.NotNil(t, v, "input was consumed by Transform")
			assert.Equal(t, contract.DoubleFree, v.Kind)

			b.Release(out)
			assert.Equal(t, 0, b.Stats().Live)
		})
	}
}

func TestTransformAcrossBridges(t *testing.T) {
	caller := cstring.New(heap.NewGo())
	bridge := cstring.New(heap.NewGo())

	in, err := caller.Generate("handed over")
	require.NoError(t, err)
	out, err := bridge.Transform(in)
	require.NoError(t, err)

	assert.Equal(t, 0, caller.Live())
	assert.Equal(t, 1, bridge.Live())
	bridge.Release(out)
}

func TestReleaseViolations(t *testing.T) {
	a := cstring.New(heap.NewGo())
	b := cstring.New(heap.NewGo())

	s, err := a.Generate("mine")
	require.NoError(t, err)

	v := contract.Catch(func() { b.Release(s) })
	require.NotNil(t, v)
	assert.Equal(t, contract.WrongAllocator, v.Kind)

	a.Release(s)
	v = contract.Catch(func() { a.Release(s) })
	require.NotNil(t, v)
	assert.Equal(t, contract.DoubleFree, v.Kind)

	v = contract.Catch(func() { a.Release(a.Adopt(0x1000)) })
	require.NotNil(t, v)
	assert.Equal(t, contract.WrongAllocator, v.Kind)
}

func TestAdoptRoundTrip(t *testing.T) {
	b := cstring.New(heap.NewGo())
	s, err := b.Generate("ping")
	require.NoError(t, err)

	back := b.Adopt(s.Ptr())
	assert.Equal(t, int32(11), b.Consume(back))
	b.Release(back)
	assert.True(t, b.Adopt(heap.Null).IsNull())
}

func TestInvalidUTF8(t *testing.T) {
	assert.Equal(t, int32(result.Sentinel), cstring.Count([]byte{0xff, 0xfe}))
	assert.Equal(t, int32(0), cstring.Count(nil))
	assert.Equal(t, int32(2), cstring.Count([]byte("日本")))
}
