// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package thread

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/momentics/hioload-thread/control"
)

// trampoline is the body of the new OS thread. It reports the thread id,
// names the thread, waits for Resume when created suspended, consumes the
// entry pair, drops the thread's own reference and finally runs the entry
// function exactly once.
func (h *Handle) trampoline(started chan<- struct{}) {
	// Never unlocked: the runtime terminates the OS thread together with
	// this goroutine.
	runtime.LockOSThread()

	h.tid.Store(h.platform.CurrentThreadID())
	close(started)

	if h.name != "" {
		if err := h.platform.SetCurrentThreadName(h.name); err != nil {
			h.bestEffortFailed("name", err)
		}
		h.tracer.SetThreadName(h.name)
	}

	h.barrier.Wait(h.resumed)

	h.mu.Lock()
	entry, arg := h.entry, h.arg
	h.entry, h.arg = nil, nil
	h.selfHeld.Store(false)
	h.mu.Unlock()

	// Everything needed past this point is copied out: the release below may
	// destroy the handle when the caller has already let go of it.
	exit, log, metrics := h.exit, h.log, h.metrics
	h.Release()

	metrics.EntryStarted()
	code := runEntry(entry, arg, log, metrics)
	metrics.EntryFinished()
	// The slot goes back before Done closes so a waiter may create a
	// replacement thread under the same limit.
	releaseSlot()
	exit.finish(code)
}

// runEntry invokes entry, turning a panic into exit code -1.
func runEntry(entry EntryFunc, arg any, log *zap.Logger, metrics *control.Metrics) (code int) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("thread entry panicked", zap.Any("panic", r), zap.Stack("stack"))
			metrics.EntryPanicked()
			code = -1
		}
	}()
	return entry(arg)
}
