// Package layout fixes the byte layout of the aggregates that cross the
// boundary and marshals them.
//
// Layouts follow the C rules: each field is placed at the next offset that
// is a multiple of its alignment, and the struct size is rounded up to the
// largest alignment. Calculator computes these layouts from field
// descriptors; TupleLayout and StudentLayout are computed once and frozen.
// In cgo builds Verify compares them against what the C compiler decided.
//
// Multi-byte fields use the byte order of the host. float32 fields are
// stored as their IEEE 754 bits and are never widened.
package layout
