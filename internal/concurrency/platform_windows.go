//go:build windows
// +build windows

// File: internal/concurrency/platform_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Windows thread priority and naming. SetThreadDescription only exists on
// Windows 10 1607 and later, so it is looked up at runtime.

package concurrency

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/momentics/hioload-thread/api"
)

const prioritySupported = true

const threadSetLimitedInformation = 0x0020 | 0x0400 // THREAD_SET_INFORMATION | THREAD_SET_LIMITED_INFORMATION

var (
	modkernel32              = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadPriority    = modkernel32.NewProc("SetThreadPriority")
	procSetThreadDescription = modkernel32.NewProc("SetThreadDescription")
)

// Windows thread priority levels.
const (
	threadPriorityLowest      = -2
	threadPriorityBelowNormal = -1
	threadPriorityNormal      = 0
	threadPriorityAboveNormal = 1
	threadPriorityHighest     = 2
)

func threadPriorityFor(class api.PriorityClass) int32 {
	switch class {
	case api.PriorityLowest:
		return threadPriorityLowest
	case api.PriorityLow:
		return threadPriorityBelowNormal
	case api.PriorityHigh:
		return threadPriorityAboveNormal
	case api.PriorityHighest:
		return threadPriorityHighest
	default:
		return threadPriorityNormal
	}
}

func platformCurrentThreadID() uint64 {
	return uint64(windows.GetCurrentThreadId())
}

func platformSetPriority(tid uint64, class api.PriorityClass) error {
	h, err := windows.OpenThread(threadSetLimitedInformation, false, uint32(tid))
	if err != nil {
		return fmt.Errorf("OpenThread(%d): %w", tid, err)
	}
	defer windows.CloseHandle(h)
	prio := threadPriorityFor(class)
	ok, _, callErr := procSetThreadPriority.Call(uintptr(h), uintptr(prio))
	if ok == 0 {
		return fmt.Errorf("SetThreadPriority(%d, %s): %v", tid, class, callErr)
	}
	return nil
}

// resolveNamer returns a SetThreadDescription based naming function, or nil
// when kernel32 does not export it.
func resolveNamer() NameFunc {
	if procSetThreadDescription.Find() != nil {
		return nil
	}
	return func(name string) error {
		wide, err := windows.UTF16PtrFromString(name)
		if err != nil {
			return err
		}
		hr, _, _ := procSetThreadDescription.Call(uintptr(windows.CurrentThread()), uintptr(unsafe.Pointer(wide)))
		if int32(hr) < 0 {
			return fmt.Errorf("SetThreadDescription: HRESULT 0x%08X", uint32(hr))
		}
		return nil
	}
}
