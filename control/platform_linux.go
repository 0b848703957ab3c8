//go:build linux
// +build linux

// control/platform_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific platform metrics or debug probe integrations.

package control

import (
	"golang.org/x/sys/unix"
)

// registerOSProbes adds the nice limit of the process, which bounds how far
// priority overrides can raise a thread without privileges.
func registerOSProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.rlimit_nice", func() any {
		var lim unix.Rlimit
		if err := unix.Getrlimit(unix.RLIMIT_NICE, &lim); err != nil {
			return err.Error()
		}
		return lim.Cur
	})
}
