// Package heap provides the manually managed side of the boundary.
//
// A Heap hands out pointers with malloc/free semantics: the caller that
// allocates must free exactly once, through the same heap. Three
// implementations share one contract:
//
//   - NewGo: an arena over Go memory. Always available.
//   - NewWasm: the same allocator over the linear memory of a wazero module,
//     the way a host manages guest memory.
//   - NewNative: C malloc/free through the cgo backend. Returns ErrNotBuilt
//     in builds without cgo.
//
// Pointers are opaque Ptr values and Null is never returned by Alloc. Load
// always copies out, so callers never hold a view into foreign memory past
// the call. Freeing twice or freeing a pointer the heap never handed out
// raises a contract.Violation. Freed memory is poisoned with 0xDD in the Go
// and wasm heaps so stale reads are recognizable in debugging sessions.
//
// Heaps keep a mutex around their bookkeeping, but the boundary contract
// still requires callers to serialize access to any single allocation.
package heap
