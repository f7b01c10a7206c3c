package cbridge

import (
	"errors"

	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/internal/backend"
)

var (
	// ErrClosed is returned by a second Close and by use of a closed
	// Boundary.
	ErrClosed = errors.New("cbridge: boundary closed")

	// ErrNotBuilt indicates the native side was not linked into this
	// binary.
	ErrNotBuilt = errors.New("cbridge: native side not built (cgo disabled)")
)

// RemapError converts backend errors to public API errors. Other errors are
// returned unchanged.
func RemapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, backend.ErrNotBuilt) {
		return ErrNotBuilt
	}
	return err
}
