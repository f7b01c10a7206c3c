package handle_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/contract"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/handle"
)

func stores(t *testing.T) map[string]func(t *testing.T) handle.Store {
	return map[string]func(t *testing.T) handle.Store{
		"arena": func(t *testing.T) handle.Store { return handle.NewArena() },
		"native": func(t *testing.T) handle.Store {
			s, err := handle.NewNative()
			if errors.Is(err, handle.ErrNotBuilt) {
				t.Skip("native store not built (cgo disabled)")
			}
			require.NoError(t, err)
			return s
		},
	}
}

func forEachStore(t *testing.T, fn func(t *testing.T, s handle.Store)) {
	for name, open := range stores(t) {
		t.Run(name, func(t *testing.T) { fn(t, open(t)) })
	}
}

func TestLifecycleReadsLastWrite(t *testing.T) {
	forEachStore(t, func(t *testing.T, s handle.Store) {
		h := s.Create(handle.DefaultInfo)
		assert.Equal(t, int32(0), s.Info(h))

		for _, v := range []int32{521, -7, 2147483647} {
			s.SetInfo(h, v)
			assert.Equal(t, v, s.Info(h))
		}
		assert.Equal(t, 1, s.Len())

		s.Destroy(h)
		assert.Equal(t, 0, s.Len())
	})
}

func TestHandlesAreIndependent(t *testing.T) {
	forEachStore(t, func(t *testing.T, s handle.Store) {
		a := s.Create(1)
		b := s.Create(2)
		require.NotEqual(t, a, b)
		s.SetInfo(a, 10)
		assert.Equal(t, int32(10), s.Info(a))
		assert.Equal(t, int32(2), s.Info(b))
		s.Destroy(a)
		s.Destroy(b)
	})
}

func TestSizeAndVersion(t *testing.T) {
	forEachStore(t, func(t *testing.T, s handle.Store) {
		assert.EqualValues(t, 4, s.SizeOf())
		assert.Equal(t, handle.APIVersion, s.APIVersion())
	})
}

func TestDestroyedHandleIsDetected(t *testing.T) {
	forEachStore(t, func(t *testing.T, s handle.Store) {
		h := s.Create(3)
		s.Destroy(h)

		cases := []struct {
			name string
			fn   func()
			want contract.Kind
		}{
			{"inspect", func() { s.Info(h) }, contract.UseAfterDestroy},
			{"mutate", func() { s.SetInfo(h, 1) }, contract.UseAfterDestroy},
			{"destroy twice", func() { s.Destroy(h) }, contract.DoubleFree},
			{"invalid", func() { s.Info(handle.Invalid) }, contract.ForeignPointer},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				v := contract.Catch(tc.fn)
				require.NotNil(t, v)
				assert.Equal(t, tc.want, v.Kind)
			})
		}
	})
}

func TestRecycledSlotRejectsStaleHandle(t *testing.T) {
	forEachStore(t, func(t *testing.T, s handle.Store) {
		old := s.Create(1)
		s.Destroy(old)

		fresh := s.Create(2)
		defer s.Destroy(fresh)
		assert.NotEqual(t, old, fresh)

		v := contract.Catch(func() { s.SetInfo(old, 99) })
		require.NotNil(t, v)
		assert.Equal(t, contract.UseAfterDestroy, v.Kind)
		assert.Equal(t, int32(2), s.Info(fresh), "stale write must not reach the recycled slot")
	})
}

func TestHandleFromOtherStoreIsForeign(t *testing.T) {
	a := handle.NewArena()
	b := handle.NewArena()
	h := a.Create(1)
	defer a.Destroy(h)

	v := contract.Catch(func() { b.Info(h) })
	require.NotNil(t, v)
	assert.Equal(t, contract.ForeignPointer, v.Kind)
}
