package heap

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

const wasmPageSize = 65536

// memoryModule is the smallest module that exports one page of linear memory
// as "memory". The heap manages that memory from the host side.
var memoryModule = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: one memory, min 1 page
	0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00, // export "memory"
}

type wasmMemory struct {
	ctx     context.Context
	runtime wazero.Runtime
	mem     api.Memory
}

// NewWasm returns a heap over the linear memory of a freshly instantiated
// wazero module. The runtime is closed with the heap.
func NewWasm(ctx context.Context, opts ...Option) (Heap, error) {
	o := buildOptions(opts)
	pages := max((o.limit+wasmPageSize-1)/wasmPageSize, 1)

	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithMemoryLimitPages(pages))
	mod, err := rt.Instantiate(ctx, memoryModule)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("heap: instantiate memory module: %w", err)
	}
	mem := mod.ExportedMemory("memory")
	if mem == nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("heap: memory module exports no memory")
	}
	return newArena(KindWasm, &wasmMemory{ctx: ctx, runtime: rt, mem: mem}, o), nil
}

func (m *wasmMemory) size() uint32 { return m.mem.Size() }

func (m *wasmMemory) grow(n uint32) bool {
	cur := m.mem.Size()
	if n <= cur {
		return true
	}
	delta := (n - cur + wasmPageSize - 1) / wasmPageSize
	_, ok := m.mem.Grow(delta)
	return ok
}

func (m *wasmMemory) read(off, n uint32) ([]byte, bool) {
	return m.mem.Read(off, n)
}

func (m *wasmMemory) write(off uint32, data []byte) bool {
	return m.mem.Write(off, data)
}

func (m *wasmMemory) close() error {
	return m.runtime.Close(m.ctx)
}
