// Package cstring transfers NUL-terminated text across the boundary with a
// single owner at any time.
//
// A Bridge allocates strings in one heap.Heap and is the only party that may
// release them:
//
//	b := cstring.New(heap.NewGo())
//	s, _ := b.Generate("ping")   // owned by b
//	n := b.Consume(s)            // borrows; 11
//	t, _ := b.Transform(s)       // s is gone; t is owned by b
//	b.Release(t)
//
// Releasing a string through a bridge that did not produce it raises a
// WrongAllocator violation, and releasing twice raises DoubleFree. Both are
// caller bugs, not errors.
package cstring
