// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package thread

import "sync"

// SuspendBarrier parks threads until a predicate holds. Waiters re-check
// their predicate on every wake, so a notification that happens before the
// wait is never lost.
type SuspendBarrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	waiters int
	closed  bool
}

// NewSuspendBarrier creates an open barrier.
func NewSuspendBarrier() *SuspendBarrier {
	b := &SuspendBarrier{}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait blocks until pred returns true or the barrier is closed.
func (b *SuspendBarrier) Wait(pred func() bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for !b.closed && !pred() {
		b.waiters++
		b.cond.Wait()
		b.waiters--
	}
}

// NotifyAll wakes every waiter so it re-evaluates its predicate.
// Callers must make the predicate true before notifying.
func (b *SuspendBarrier) NotifyAll() {
	b.mu.Lock()
	b.cond.Broadcast()
	b.mu.Unlock()
}

// Waiters returns the number of goroutines currently parked.
func (b *SuspendBarrier) Waiters() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.waiters
}

// Close releases all waiters and makes later waits return immediately.
func (b *SuspendBarrier) Close() {
	b.mu.Lock()
	b.closed = true
	b.cond.Broadcast()
	b.mu.Unlock()
}
