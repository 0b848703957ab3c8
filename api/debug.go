// Package api
// Author: momentics
//
// Live debug and contract validation support for production workloads.

package api

// Debug exposes runtime introspection and health API.
type Debug interface {
	// DumpState emits a snapshot of system state for diagnostics.
	DumpState() map[string]any

	// RegisterProbe dynamically registers new debug probes.
	RegisterProbe(name string, fn func() any)
}

// ThreadInfo is the diagnostic view of a live thread handle.
type ThreadInfo struct {
	Key       string        `json:"key"`
	Name      string        `json:"name"`
	ID        uint64        `json:"id"`
	Refs      int32         `json:"refs"`
	Suspended bool          `json:"suspended"`
	Base      PriorityClass `json:"base"`
	Effective PriorityClass `json:"effective"`
	Overrides int           `json:"overrides"`
}
