// Package handle implements the opaque-handle lifecycle of the boundary.
//
// A Handle is a token for a record whose layout is private to the Store that
// created it. Callers reach the record only through the Store accessors:
//
//	s := handle.NewArena()
//	h := s.Create(handle.DefaultInfo)
//	s.SetInfo(h, 521)
//	fmt.Println(s.Info(h)) // 521
//	s.Destroy(h)
//
// # Lifetime
//
// A handle is valid from Create until Destroy, which must be called exactly
// once. Handles carry a slot index and a generation; Destroy bumps the
// generation, so any later use of the handle, including a second Destroy,
// is detected and raised as a *contract.Violation instead of reaching
// recycled storage.
//
// Two stores are provided. NewArena keeps records in Go memory. NewNative
// keeps each record in C memory allocated by the native side and is only
// available in cgo builds.
package handle
