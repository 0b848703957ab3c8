// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package thread

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/momentics/hioload-thread/api"
)

// Registry indexes live handles for debug probes. A nil *Registry ignores
// every call.
type Registry struct {
	mu      sync.RWMutex
	handles map[uuid.UUID]*Handle
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handles: make(map[uuid.UUID]*Handle)}
}

func (r *Registry) add(h *Handle) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.handles[h.key] = h
	r.mu.Unlock()
}

func (r *Registry) remove(h *Handle) {
	if r == nil {
		return
	}
	r.mu.Lock()
	delete(r.handles, h.key)
	r.mu.Unlock()
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}

// Lookup finds a live handle by key.
func (r *Registry) Lookup(key uuid.UUID) (*Handle, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handles[key]
	return h, ok
}

// Snapshot returns the diagnostic view of every live handle ordered by
// name, then key.
func (r *Registry) Snapshot() []api.ThreadInfo {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	out := make([]api.ThreadInfo, 0, len(r.handles))
	for _, h := range r.handles {
		out = append(out, h.Info())
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Key < out[j].Key
	})
	return out
}
