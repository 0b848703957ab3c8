//go:build !linux && !windows
// +build !linux,!windows

// File: internal/concurrency/platform_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fallback implementation: no priority or naming support. Thread ids are
// synthetic but unique per process.

package concurrency

import (
	"sync/atomic"

	"github.com/momentics/hioload-thread/api"
)

const prioritySupported = false

var syntheticThreadID atomic.Uint64

func platformCurrentThreadID() uint64 {
	return syntheticThreadID.Add(1)
}

func platformSetPriority(tid uint64, class api.PriorityClass) error {
	return api.ErrNotSupported
}

func resolveNamer() NameFunc {
	return nil
}
