// control/platform.go
// Author: momentics <momentics@gmail.com>
//
// Platform capability probes shared by every OS.

package control

import (
	"runtime"

	"github.com/momentics/hioload-thread/api"
)

// RegisterPlatformProbes exposes CPU count and the capabilities of p.
func RegisterPlatformProbes(dp *DebugProbes, p api.Platform) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.os", func() any {
		return runtime.GOOS
	})
	dp.RegisterProbe("platform.capabilities", func() any {
		return p.Capabilities()
	})
	registerOSProbes(dp)
}
