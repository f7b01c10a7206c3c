// Package backend hosts the thin cgo layer that links the Go API to the
// native side of the boundary: a C opaque object, a C driver that invokes a
// callback with user data, a C student record, the C allocator, and a C
// tuple passed by value. The real implementation lives behind build tags so
// that the rest of the repository compiles without cgo; in such builds every
// entry point reports ErrNotBuilt or a zero value and Built returns false.
//
// Pointers cross this package as uintptr. They always address C memory, which
// the Go garbage collector never moves or frees.
package backend
