//go:build windows
// +build windows

// File: affinity/affinity_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific implementation for setting thread CPU affinity.
// The group/id pair becomes the ideal processor; group 0 requests are also
// enforced through the affinity mask.

package affinity

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/momentics/hioload-thread/api"
)

const supported = true

const threadSetInformation = 0x0020 | 0x0040 // THREAD_SET_INFORMATION | THREAD_QUERY_INFORMATION

var (
	modkernel32                   = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadAffinityMask     = modkernel32.NewProc("SetThreadAffinityMask")
	procSetThreadIdealProcessorEx = modkernel32.NewProc("SetThreadIdealProcessorEx")
)

// processorNumber mirrors PROCESSOR_NUMBER.
type processorNumber struct {
	Group    uint16
	Number   uint8
	Reserved uint8
}

// applyPlatform sets the ideal processor and, for group 0, the affinity mask.
func applyPlatform(tid uint64, a api.Affinity) error {
	h, err := windows.OpenThread(threadSetInformation, false, uint32(tid))
	if err != nil {
		return fmt.Errorf("affinity: OpenThread(%d): %w", tid, err)
	}
	defer windows.CloseHandle(h)

	if procSetThreadIdealProcessorEx.Find() == nil {
		pn := processorNumber{Group: uint16(a.Group), Number: uint8(a.ID)}
		procSetThreadIdealProcessorEx.Call(uintptr(h), uintptr(unsafe.Pointer(&pn)), 0)
	}
	if a.Group != 0 || a.ID >= 64 {
		return nil
	}
	mask := uintptr(1) << uint(a.ID)
	old, _, callErr := procSetThreadAffinityMask.Call(uintptr(h), mask)
	if old == 0 {
		return fmt.Errorf("affinity: SetThreadAffinityMask failed: %v", callErr)
	}
	return nil
}
