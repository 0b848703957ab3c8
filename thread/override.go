// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package thread

import (
	"sync"

	"github.com/momentics/hioload-thread/api"
)

// ApplyFunc pushes an effective priority class to the OS.
type ApplyFunc func(class api.PriorityClass)

// OverrideList tracks the active priority overrides of one thread. While
// any override is active the effective class is the highest active request,
// even when that is below base; with none active it is base. It is
// recomputed from the active set on every change, so removal order never
// matters.
type OverrideList struct {
	mu      sync.Mutex
	base    api.PriorityClass
	current api.PriorityClass
	active  map[*Override]struct{}
	apply   ApplyFunc
}

// Override is the token returned by BeginOverride. End removes it.
type Override struct {
	list   *OverrideList
	thread *Handle
	class  api.PriorityClass
}

// NewOverrideList creates an empty list whose effective class starts at base.
// apply may be nil.
func NewOverrideList(base api.PriorityClass, apply ApplyFunc) *OverrideList {
	return &OverrideList{
		base:    base,
		current: base,
		active:  make(map[*Override]struct{}),
		apply:   apply,
	}
}

// Add activates an override for class and applies the new effective class
// if it changed.
func (l *OverrideList) Add(class api.PriorityClass) *Override {
	o := &Override{list: l, class: class}
	l.insert(o)
	return o
}

func (l *OverrideList) insert(o *Override) {
	l.mu.Lock()
	l.active[o] = struct{}{}
	l.updateLocked()
	l.mu.Unlock()
}

// remove deactivates o. Reports false if o was not active.
func (l *OverrideList) remove(o *Override) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.active[o]; !ok {
		return false
	}
	delete(l.active, o)
	l.updateLocked()
	return true
}

// updateLocked recomputes the effective class and applies it on change.
// The apply call stays under the lock so concurrent updates cannot land on
// the OS out of order.
func (l *OverrideList) updateLocked() {
	eff := l.base
	first := true
	for o := range l.active {
		if first || o.class > eff {
			eff = o.class
			first = false
		}
	}
	if eff == l.current {
		return
	}
	l.current = eff
	if l.apply != nil {
		l.apply(eff)
	}
}

// Reapply pushes the current effective class to the OS unconditionally.
func (l *OverrideList) Reapply() {
	l.mu.Lock()
	if l.apply != nil {
		l.apply(l.current)
	}
	l.mu.Unlock()
}

// Current returns the effective class.
func (l *OverrideList) Current() api.PriorityClass {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Base returns the class used when no override is active.
func (l *OverrideList) Base() api.PriorityClass {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.base
}

// Len returns the number of active overrides.
func (l *OverrideList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.active)
}

// Close drops every override without applying anything and returns how
// many were still active.
func (l *OverrideList) Close() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.active)
	l.active = make(map[*Override]struct{})
	l.current = l.base
	return n
}

// Class returns the requested class of the override.
func (o *Override) Class() api.PriorityClass {
	if o == nil {
		return api.PriorityNormal
	}
	return o.class
}

// End removes the override from its list. Nil and repeated calls are no-ops.
func (o *Override) End() {
	if o == nil || o.list == nil {
		return
	}
	if !o.list.remove(o) {
		return
	}
	if h := o.thread; h != nil {
		span := h.tracer.StartSpan("thread.override_end")
		span.SetTag("class", o.class.String())
		h.metrics.OverrideEnded()
		span.Finish()
	}
}
