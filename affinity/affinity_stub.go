//go:build !linux && !windows
// +build !linux,!windows

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.
// Returns error to indicate unavailability.

package affinity

import "github.com/momentics/hioload-thread/api"

const supported = false

// applyPlatform is a stub for platforms where CPU affinity is not supported.
func applyPlatform(tid uint64, a api.Affinity) error {
	return api.ErrNotSupported
}
