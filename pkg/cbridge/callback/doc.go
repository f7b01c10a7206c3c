// Package callback invokes a function supplied by one side of the boundary
// from the other, threading an opaque user context through unchanged.
//
// Every invocation is synchronous and happens exactly once: the callback has
// run to completion when Invoke returns. The context is never inspected.
//
// The Native invoker hands the callback to a C driver. C sees only a
// registry token in place of the context and passes it back to an exported
// Go trampoline, which resolves it to the original value.
package callback
