// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package tracing

import "github.com/momentics/hioload-thread/api"

var _ api.Tracer = Nop{}

// Nop discards every event.
type Nop struct{}

func (Nop) StartSpan(string, ...api.SpanOption) api.Span { return nopSpan{} }
func (Nop) SetThreadName(string)                         {}

type nopSpan struct{}

func (nopSpan) Finish()            {}
func (nopSpan) SetTag(string, any) {}
func (nopSpan) Log(map[string]any) {}

// OrNop returns t, or Nop when t is nil.
func OrNop(t api.Tracer) api.Tracer {
	if t == nil {
		return Nop{}
	}
	return t
}
