// Package tracing
// Author: momentics <momentics@gmail.com>
//
// Implementations of api.Tracer: a no-op tracer, a zap-backed tracer that
// logs zone begin/end and thread naming, and a bounded in-memory Recorder
// used by debug probes and tests.
package tracing
