// Package internalcheck holds source-level policy tests for the boundary
// packages. It has no API; the checks run as ordinary tests:
//
//   - only internal/backend and capi import "C"
//   - every //export in capi defers the boundary guard first
//   - secret-handling packages never format with %x
//   - secret-handling packages never compare byte slices directly
package internalcheck
