// File: internal/concurrency/platform.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Cross-platform OS scheduling facility with runtime capability detection.

package concurrency

import (
	"runtime"
	"sync"

	"github.com/momentics/hioload-thread/affinity"
	"github.com/momentics/hioload-thread/api"
)

// Ensure compile-time interface compliance.
var _ api.Platform = (*OSPlatform)(nil)

// OSPlatform implements api.Platform on top of the host OS.
type OSPlatform struct{}

var (
	defaultOnce     sync.Once
	defaultPlatform *OSPlatform
)

// Default returns the process-wide OS platform.
func Default() *OSPlatform {
	defaultOnce.Do(func() {
		defaultPlatform = &OSPlatform{}
	})
	return defaultPlatform
}

// CurrentThreadID returns the OS id of the calling thread. Callers must have
// locked the goroutine to its OS thread for the id to stay meaningful.
func (p *OSPlatform) CurrentThreadID() uint64 {
	return platformCurrentThreadID()
}

// SetCurrentThreadName labels the calling OS thread. Returns
// api.ErrNotSupported when no naming function could be resolved.
func (p *OSPlatform) SetCurrentThreadName(name string) error {
	fn := ThreadNamer()
	if fn == nil {
		return api.ErrNotSupported
	}
	return fn(name)
}

// SetPriority applies class to the thread tid.
func (p *OSPlatform) SetPriority(tid uint64, class api.PriorityClass) error {
	return platformSetPriority(tid, class.Clamp())
}

// SetAffinity applies a to the thread tid.
func (p *OSPlatform) SetAffinity(tid uint64, a api.Affinity) error {
	return affinity.Apply(tid, a)
}

// Capabilities reports which operations are backed by system calls.
func (p *OSPlatform) Capabilities() api.Capabilities {
	return api.Capabilities{
		Naming:   ThreadNamer() != nil,
		Priority: prioritySupported,
		Affinity: affinity.Supported(),
	}
}

// NumCPUs returns the number of logical CPUs.
func NumCPUs() int {
	return runtime.NumCPU()
}
