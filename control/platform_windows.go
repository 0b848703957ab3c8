//go:build windows
// +build windows

// control/platform_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific metrics/debug introspection points.

package control

import (
	"golang.org/x/sys/windows"
)

// registerOSProbes adds the Windows build number.
func registerOSProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.build", func() any {
		major, minor, build := windows.RtlGetNtVersionNumbers()
		return [3]uint32{major, minor, build}
	})
}
