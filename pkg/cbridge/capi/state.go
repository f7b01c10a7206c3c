package capi

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/heap"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/result"
)

var (
	mu     sync.Mutex
	active *cbridge.Boundary
	guard  atomic.Pointer[result.Guard]
)

func init() {
	guard.Store(&result.Guard{})
}

// Install makes b the boundary behind the C ABI. b must use the native heap
// so that C can dereference what the exports return. It returns the
// boundary it replaced, if any; closing that one is up to the caller.
// Installing nil makes the next export open a default native boundary.
func Install(b *cbridge.Boundary) *cbridge.Boundary {
	mu.Lock()
	defer mu.Unlock()
	prev := active
	active = b
	if b == nil {
		guard.Store(&result.Guard{})
	} else {
		guard.Store(b.Guard())
	}
	return prev
}

// current returns the installed boundary, opening a native one on first use.
func current() *cbridge.Boundary {
	mu.Lock()
	defer mu.Unlock()
	if active == nil {
		b, err := cbridge.Open(context.Background(), cbridge.Config{Heap: heap.KindNative})
		if err != nil {
			panic(err)
		}
		active = b
		guard.Store(b.Guard())
	}
	return active
}
