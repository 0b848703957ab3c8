//go:build linux
// +build linux

// File: internal/concurrency/platform_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux threads are lightweight processes: setpriority on a tid changes the
// nice value of that thread only. Raising priority above normal needs
// CAP_SYS_NICE or a matching RLIMIT_NICE; without it the call fails and the
// request degrades to a no-op.

package concurrency

import (
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-thread/api"
)

const prioritySupported = true

// niceFor maps a priority class onto a nice value.
func niceFor(class api.PriorityClass) int {
	switch class {
	case api.PriorityLowest:
		return 19
	case api.PriorityLow:
		return 10
	case api.PriorityHigh:
		return -5
	case api.PriorityHighest:
		return -10
	default:
		return 0
	}
}

func platformCurrentThreadID() uint64 {
	return uint64(unix.Gettid())
}

func platformSetPriority(tid uint64, class api.PriorityClass) error {
	if err := unix.Setpriority(unix.PRIO_PROCESS, int(tid), niceFor(class)); err != nil {
		return fmt.Errorf("setpriority(%d, %s): %w", tid, class, err)
	}
	return nil
}

// resolveNamer returns a prctl(PR_SET_NAME) based naming function.
func resolveNamer() NameFunc {
	return func(name string) error {
		p, err := unix.BytePtrFromString(name)
		if err != nil {
			return err
		}
		err = unix.Prctl(unix.PR_SET_NAME, uintptr(unsafe.Pointer(p)), 0, 0, 0)
		runtime.KeepAlive(p)
		return err
	}
}
