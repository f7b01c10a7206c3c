// Package result encodes success, failure, presence and absence as
// sentinel-bearing primitives that can cross the boundary, and contains the
// boundary panic policy.
//
// Every encoder documents the condition that produces Sentinel. Callers on
// the other side must check for it before using any payload. The
// encode/decode pairs in this package are the single source of truth for
// those values.
//
// A panic must never unwind into foreign frames. Guard recovers at the
// boundary: contract violations and allocation exhaustion abort the process
// with a diagnostic, everything else becomes Sentinel.
package result
