// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations are located
// in separate files (affinity_linux.go, affinity_windows.go, etc.) guarded by build tags.

package affinity

import (
	"runtime"

	"github.com/momentics/hioload-thread/api"
)

// Apply pins the OS thread tid to the processor named by a. Unspecified
// requests are skipped. Unsupported platforms return api.ErrNotSupported.
func Apply(tid uint64, a api.Affinity) error {
	if !a.Specified {
		return nil
	}
	if a.Group == 0 && int(a.ID) >= NumCPUs() {
		return api.NewError(api.ErrCodeInvalidArgument, "affinity: cpu out of range").
			WithContext("cpu", a.ID).
			WithContext("num_cpus", NumCPUs())
	}
	return applyPlatform(tid, a)
}

// Supported reports whether Apply is backed by a system call here.
func Supported() bool {
	return supported
}

// NumCPUs returns the number of logical CPUs.
func NumCPUs() int {
	return runtime.NumCPU()
}

// LastCPU is the highest logical CPU index.
func LastCPU() int {
	if n := NumCPUs(); n > 0 {
		return n - 1
	}
	return 0
}
