// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake api.Platform that records every scheduling request instead of
// issuing system calls.

package fake

import (
	"sync"

	"github.com/momentics/hioload-thread/api"
)

var _ api.Platform = (*Platform)(nil)

// Platform is an in-memory api.Platform. Thread ids are handed out
// sequentially starting at 1000.
type Platform struct {
	mu         sync.Mutex
	nextID     uint64
	caps       api.Capabilities
	names      []string
	priorities map[uint64][]api.PriorityClass
	affinities map[uint64][]api.Affinity

	// Errors returned by the corresponding calls after recording them.
	NameErr     error
	PriorityErr error
	AffinityErr error

	// PriorityCheck, when set, decides the result of SetPriority from the
	// previously applied class (NORMAL if none) and the requested one.
	PriorityCheck func(prev, next api.PriorityClass) error
}

// NewPlatform creates a fake platform reporting full capabilities.
func NewPlatform() *Platform {
	return &Platform{
		nextID:     1000,
		caps:       api.Capabilities{Naming: true, Priority: true, Affinity: true},
		priorities: make(map[uint64][]api.PriorityClass),
		affinities: make(map[uint64][]api.Affinity),
	}
}

// SetCapabilities changes the reported capabilities.
func (p *Platform) SetCapabilities(c api.Capabilities) {
	p.mu.Lock()
	p.caps = c
	p.mu.Unlock()
}

func (p *Platform) CurrentThreadID() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	return p.nextID
}

func (p *Platform) SetCurrentThreadName(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.names = append(p.names, name)
	return p.NameErr
}

func (p *Platform) SetPriority(tid uint64, class api.PriorityClass) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	prev := api.PriorityNormal
	if h := p.priorities[tid]; len(h) > 0 {
		prev = h[len(h)-1]
	}
	p.priorities[tid] = append(p.priorities[tid], class)
	if p.PriorityCheck != nil {
		return p.PriorityCheck(prev, class)
	}
	return p.PriorityErr
}

func (p *Platform) SetAffinity(tid uint64, a api.Affinity) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.affinities[tid] = append(p.affinities[tid], a)
	return p.AffinityErr
}

func (p *Platform) Capabilities() api.Capabilities {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.caps
}

// Names returns every name applied so far.
func (p *Platform) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.names...)
}

// Priorities returns the classes applied to tid, oldest first.
func (p *Platform) Priorities(tid uint64) []api.PriorityClass {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]api.PriorityClass(nil), p.priorities[tid]...)
}

// LastPriority returns the class most recently applied to tid.
func (p *Platform) LastPriority(tid uint64) (api.PriorityClass, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	h := p.priorities[tid]
	if len(h) == 0 {
		return api.PriorityNormal, false
	}
	return h[len(h)-1], true
}

// Affinities returns the affinity requests applied to tid, oldest first.
func (p *Platform) Affinities(tid uint64) []api.Affinity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]api.Affinity(nil), p.affinities[tid]...)
}
