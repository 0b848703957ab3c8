// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package thread

import (
	"go.uber.org/zap"

	"github.com/momentics/hioload-thread/api"
)

// RequestAffinity asks the OS to run the thread on the processor named by a.
// Unspecified requests and platforms without affinity support are skipped.
// Affinities are not sticky: the OS may drop them when cores go offline, so
// callers wanting a placement should re-request it before large bursts of
// work.
func (h *Handle) RequestAffinity(a api.Affinity) {
	if h == nil || !a.Specified {
		return
	}
	if !h.platform.Capabilities().Affinity {
		return
	}
	tid := h.tid.Load()
	if tid == 0 || h.exit.finished.Load() {
		return
	}
	span := h.tracer.StartSpan("thread.request_affinity")
	defer span.Finish()
	span.SetTag("cpu", a.String())

	if err := h.platform.SetAffinity(tid, a); err != nil {
		h.bestEffortFailed("affinity", err, zap.Stringer("cpu", a))
		return
	}
	h.metrics.AffinityApplied()
}
