//go:build linux
// +build linux

// File: affinity/affinity_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific implementation for setting thread CPU affinity.
// Linux threads are lightweight processes, so sched_setaffinity on the tid
// affects exactly that thread.

package affinity

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-thread/api"
)

const supported = true

// applyPlatform restricts tid to the single CPU a.ID.
func applyPlatform(tid uint64, a api.Affinity) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(int(a.ID))
	if err := unix.SchedSetaffinity(int(tid), &set); err != nil {
		return fmt.Errorf("affinity: sched_setaffinity(%d, cpu %d): %w", tid, a.ID, err)
	}
	return nil
}
