//go:build !cgo || windows

package capi

import "github.com/hsiuhsiu/cbridge-go/pkg/cbridge"

// RunHarness reports ErrNotBuilt in builds without cgo.
func RunHarness() (Report, error) {
	return Report{}, cbridge.ErrNotBuilt
}
