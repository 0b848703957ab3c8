// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package thread

import (
	"errors"
	"sync"
	"sync/atomic"
	"syscall"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/momentics/hioload-thread/api"
	"github.com/momentics/hioload-thread/control"
)

// EntryFunc is the work run on a new thread. Its result is the thread's
// exit code.
type EntryFunc func(arg any) int

// Handle is a reference-counted OS thread.
//
// Ownership is shared between the creator and the thread itself: Create
// returns a handle holding one caller reference while the thread holds a
// second one until its entry function is about to run.
type Handle struct {
	refs      atomic.Int32
	selfHeld  atomic.Bool
	suspend   atomic.Int32
	tid       atomic.Uint64
	destroyed atomic.Bool

	key       uuid.UUID
	name      string
	stackSize int

	// mu guards the entry pair.
	mu    sync.Mutex
	entry EntryFunc
	arg   any

	barrier   *SuspendBarrier
	overrides *OverrideList
	exit      *exitState

	platform api.Platform
	tracer   api.Tracer
	log      *zap.Logger
	metrics  *control.Metrics
	registry *Registry
}

type exitState struct {
	done     chan struct{}
	finished atomic.Bool
	code     int
}

func (e *exitState) finish(code int) {
	e.code = code
	e.finished.Store(true)
	close(e.done)
}

// Create starts a new OS thread that runs entry(arg).
//
// The thread is fully configured before Create returns: its OS id is known,
// a non-NORMAL priority and a specified initial affinity are already
// applied. Unless params.CreateSuspended is set the entry function may be
// running by the time Create returns. A name longer than
// api.MaxThreadNameLen is truncated.
//
// On failure no handle is returned; the error is an *api.Error with code
// api.ErrCodeInvalidArgument (nil entry) or api.ErrCodeThreadCreate.
func Create(entry EntryFunc, arg any, params api.CreateParams, opts ...Option) (*Handle, error) {
	o := buildOptions(opts)
	span := o.tracer.StartSpan("thread.create")
	defer span.Finish()

	if entry == nil {
		o.metrics.CreateFailed(api.ErrCodeInvalidArgument)
		return nil, api.NewError(api.ErrCodeInvalidArgument, "thread: nil entry function")
	}

	h := &Handle{
		key:       uuid.New(),
		name:      TruncateName(params.Name),
		stackSize: params.StackSize,
		entry:     entry,
		arg:       arg,
		barrier:   NewSuspendBarrier(),
		exit:      &exitState{done: make(chan struct{})},
		platform:  o.platform,
		tracer:    o.tracer,
		metrics:   o.metrics,
		registry:  o.registry,
	}
	h.log = o.log.With(zap.String("thread", h.name), zap.Stringer("key", h.key))
	h.refs.Store(1)
	if params.CreateSuspended {
		h.suspend.Store(1)
	}
	h.overrides = NewOverrideList(params.Priority, h.applyPriority)
	span.SetTag("thread", h.name)
	span.SetTag("key", h.key.String())

	if params.StackSize > 0 {
		h.log.Debug("stack size is managed by the Go runtime", zap.Int("stack_size", params.StackSize))
	}

	// The thread's own stake in the handle, dropped by the trampoline.
	h.selfHeld.Store(true)
	h.Retain()

	if err := h.startNative(); err != nil {
		h.selfHeld.Store(false)
		h.refs.Add(-1)
		h.barrier.Close()
		h.overrides.Close()
		h.metrics.CreateFailed(api.ErrCodeThreadCreate)
		h.log.Warn("thread creation failed", zap.Error(err))
		e := api.NewError(api.ErrCodeThreadCreate, "thread: native start failed").
			WithCause(err).
			WithContext("name", h.name)
		var errno syscall.Errno
		if errors.As(err, &errno) {
			e.WithContext("code", int(errno))
		}
		return nil, e
	}

	h.metrics.ThreadCreated()
	h.registry.add(h)

	if params.Priority != api.PriorityNormal {
		h.overrides.Reapply()
	}
	if params.InitialAffinity.Specified {
		h.RequestAffinity(params.InitialAffinity)
	}
	return h, nil
}

// startNative launches the trampoline and waits until it has reported its
// OS thread id.
func (h *Handle) startNative() error {
	if err := acquireSlot(); err != nil {
		return err
	}
	started := make(chan struct{})
	go h.trampoline(started)
	<-started
	return nil
}

// Retain adds a reference. No-op on a nil handle.
func (h *Handle) Retain() {
	if h == nil {
		return
	}
	h.refs.Add(1)
}

// Release drops a reference and destroys the handle when none remain.
// Releasing more often than retained is a caller bug.
//
// When the caller's last reference goes while the thread is still parked
// on its barrier, the thread is resumed: nobody could resume it later.
func (h *Handle) Release() {
	if h == nil {
		return
	}
	n := h.refs.Add(-1)
	switch {
	case n == 0:
		h.destroy()
	case n == 1 && h.selfHeld.Load():
		h.Resume()
	}
}

// destroy runs once, when the last reference is dropped.
func (h *Handle) destroy() {
	if !h.destroyed.CompareAndSwap(false, true) {
		return
	}
	span := h.tracer.StartSpan("thread.destroy")
	defer span.Finish()

	h.Resume()
	h.barrier.Close()
	if n := h.overrides.Close(); n > 0 {
		h.log.Warn("thread destroyed with active priority overrides", zap.Int("overrides", n))
		h.metrics.OverridesDropped(n)
	}
	h.registry.remove(h)
	h.metrics.HandleDestroyed()
}

// ID returns the OS thread id. Valid for any handle returned by Create.
func (h *Handle) ID() uint64 {
	if h == nil {
		return 0
	}
	return h.tid.Load()
}

// Resume lets a suspended thread run its entry function. It never blocks
// and calling it again, or on a thread that was never suspended, does
// nothing.
func (h *Handle) Resume() {
	if h == nil {
		return
	}
	if h.suspend.Swap(0) == 1 {
		h.barrier.NotifyAll()
	}
}

// Suspended reports whether the thread is still waiting for Resume.
func (h *Handle) Suspended() bool {
	return h != nil && h.suspend.Load() != 0
}

func (h *Handle) resumed() bool {
	return h.suspend.Load() == 0
}

// BeginOverride sets the thread's effective priority to class until End is
// called on the returned token. Overrides from unrelated callers may be
// active at once; the highest wins. Once the last one ends the thread
// returns to its base class.
func (h *Handle) BeginOverride(class api.PriorityClass) *Override {
	span := h.tracer.StartSpan("thread.override_begin")
	defer span.Finish()
	span.SetTag("class", class.String())

	o := &Override{list: h.overrides, thread: h, class: class}
	h.overrides.insert(o)
	h.metrics.OverrideBegan()
	return o
}

// Priority returns the effective priority class.
func (h *Handle) Priority() api.PriorityClass {
	return h.overrides.Current()
}

// BasePriority returns the class the thread was created with.
func (h *Handle) BasePriority() api.PriorityClass {
	return h.overrides.Base()
}

// Name returns the (possibly truncated) diagnostic name.
func (h *Handle) Name() string {
	return h.name
}

// Key returns the handle's correlation key used in logs and traces.
func (h *Handle) Key() uuid.UUID {
	return h.key
}

// StackSize returns the requested stack size; 0 means platform default.
func (h *Handle) StackSize() int {
	return h.stackSize
}

// Done is closed when the entry function has returned.
func (h *Handle) Done() <-chan struct{} {
	return h.exit.done
}

// ExitCode returns the entry function's result once it has returned.
func (h *Handle) ExitCode() (int, bool) {
	if !h.exit.finished.Load() {
		return 0, false
	}
	return h.exit.code, true
}

// Info returns a diagnostic snapshot of the handle.
func (h *Handle) Info() api.ThreadInfo {
	return api.ThreadInfo{
		Key:       h.key.String(),
		Name:      h.name,
		ID:        h.ID(),
		Refs:      h.refs.Load(),
		Suspended: h.Suspended(),
		Base:      h.overrides.Base(),
		Effective: h.overrides.Current(),
		Overrides: h.overrides.Len(),
	}
}

// applyPriority is the OverrideList apply hook. Called with the list lock
// held.
func (h *Handle) applyPriority(class api.PriorityClass) {
	tid := h.tid.Load()
	if tid == 0 || h.exit.finished.Load() {
		return
	}
	if !h.platform.Capabilities().Priority {
		return
	}
	if err := h.platform.SetPriority(tid, class); err != nil {
		h.bestEffortFailed("priority", err, zap.Stringer("class", class))
		return
	}
	h.metrics.PriorityApplied(class)
}

func (h *Handle) bestEffortFailed(op string, err error, fields ...zap.Field) {
	h.metrics.BestEffortFailed(op)
	h.log.Debug("best-effort thread operation failed",
		append([]zap.Field{zap.String("op", op), zap.Error(err)}, fields...)...)
}

// TruncateName shortens name to at most api.MaxThreadNameLen bytes without
// splitting a UTF-8 sequence.
func TruncateName(name string) string {
	if len(name) <= api.MaxThreadNameLen {
		return name
	}
	cut := api.MaxThreadNameLen
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return name[:cut]
}
