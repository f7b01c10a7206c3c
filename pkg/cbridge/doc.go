// Package cbridge bundles the boundary components behind one scoped value.
//
// Open builds a Boundary from a Config: a foreign heap, a handle store, a
// string bridge, a callback invoker and the panic guard used by exported
// entry points. The components are also usable on their own through their
// packages; Boundary only picks matching implementations and owns their
// lifetime.
//
// The zero Config is valid and selects the pure Go heap, so the package
// works in builds without cgo. Selecting the native heap requires cgo and
// otherwise fails with ErrNotBuilt.
package cbridge
