// Package api
// Author: momentics <momentics@gmail.com>
//
// Tracing collaborator contract: zones and thread naming.

package api

// Tracer manages structured spans (zones) for profiling tools.
type Tracer interface {
	// StartSpan begins a zone for a named operation.
	StartSpan(name string, opts ...SpanOption) Span

	// SetThreadName records the name of the calling OS thread.
	SetThreadName(name string)
}

// Span represents a unit of work in tracing systems.
type Span interface {
	// Finish marks the span as completed.
	Finish()

	// SetTag attaches metadata to the span.
	SetTag(key string, value any)

	// Log emits a structured event into the span timeline.
	Log(fields map[string]any)
}

// SpanOption allows future extendability for span customization.
type SpanOption interface{}
