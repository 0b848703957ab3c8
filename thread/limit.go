// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package thread

import (
	"fmt"
	"sync/atomic"
	"syscall"

	"github.com/momentics/hioload-thread/api"
)

// Process-wide accounting of OS threads started through this package.
var nativeThreads struct {
	live atomic.Int64
	max  atomic.Int64 // 0 = unlimited
}

// SetMaxThreads limits how many handle threads may run at once and returns
// the previous limit. n <= 0 removes the limit. Threads already running are
// not affected.
func SetMaxThreads(n int) int {
	if n < 0 {
		n = 0
	}
	return int(nativeThreads.max.Swap(int64(n)))
}

// LiveThreads returns the number of handle threads whose OS thread has not
// exited yet.
func LiveThreads() int {
	return int(nativeThreads.live.Load())
}

// acquireSlot reserves a thread slot or reports the native start failure.
func acquireSlot() error {
	for {
		live := nativeThreads.live.Load()
		limit := nativeThreads.max.Load()
		if limit > 0 && live >= limit {
			return fmt.Errorf("%w: %d of %d threads in use: %w",
				api.ErrResourceExhausted, live, limit, syscall.EAGAIN)
		}
		if nativeThreads.live.CompareAndSwap(live, live+1) {
			return nil
		}
	}
}

func releaseSlot() {
	nativeThreads.live.Add(-1)
}
