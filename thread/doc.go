// Package thread
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Reference-counted OS thread handles.
//
// A Handle owns one goroutine locked to its own OS thread for its whole
// life. Handles support:
//   - create-suspended start, emulated by parking the new thread on a
//     SuspendBarrier until Resume
//   - shared ownership between the creator and the thread itself
//     (Retain/Release), so callers may drop a handle right after Create
//   - stacked priority-class overrides: the highest active override wins,
//     and the base class applies again once none is active
//   - best-effort CPU affinity requests
//
// Naming, priority and affinity are quality-of-service hints: failures are
// logged at debug level and never surface as errors. Only Create can fail.
package thread
