package cbridge

import (
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/handle"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/internal/backend"
)

var (
	Version   = "v0.0.0-in-progress"
	GitCommit = "unknown"
)

// WrapperVersion returns the semantic version populated at build time via
// ldflags. In development it defaults to v0.0.0-in-progress.
func WrapperVersion() string {
	return Version
}

// APIVersion returns the version of the handle accessor API.
func APIVersion() int {
	return handle.APIVersion
}

// NativeBuilt reports whether the native side is linked into this binary.
func NativeBuilt() bool {
	return backend.Built()
}
