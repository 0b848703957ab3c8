// File: internal/concurrency/naming.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Process-wide thread naming function, resolved once on first use.

package concurrency

import "sync"

// NameFunc labels the calling OS thread.
type NameFunc func(name string) error

// namer caches the platform naming function. Resolution runs at most once
// per process until ResetThreadNamer is called; a nil fn means the platform
// offers no naming call.
var namer struct {
	mu       sync.Mutex
	resolved bool
	fn       NameFunc
}

// ThreadNamer returns the cached naming function, resolving it on first use.
// The result may be nil.
func ThreadNamer() NameFunc {
	namer.mu.Lock()
	defer namer.mu.Unlock()
	if !namer.resolved {
		namer.fn = resolveNamer()
		namer.resolved = true
	}
	return namer.fn
}

// SetThreadNamer injects fn as the resolved naming function.
func SetThreadNamer(fn NameFunc) {
	namer.mu.Lock()
	namer.fn = fn
	namer.resolved = true
	namer.mu.Unlock()
}

// ResetThreadNamer drops the cached function so the next ThreadNamer call
// resolves it again.
func ResetThreadNamer() {
	namer.mu.Lock()
	namer.fn = nil
	namer.resolved = false
	namer.mu.Unlock()
}
