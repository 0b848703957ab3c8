// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// LogTracer emits zones and thread names as zap debug entries.

package tracing

import (
	"time"

	"go.uber.org/zap"

	"github.com/momentics/hioload-thread/api"
)

var _ api.Tracer = (*LogTracer)(nil)

// LogTracer writes trace events to a zap logger at debug level.
type LogTracer struct {
	log *zap.Logger
}

// NewLogTracer wraps l; a nil logger yields a tracer that logs nothing.
func NewLogTracer(l *zap.Logger) *LogTracer {
	if l == nil {
		l = zap.NewNop()
	}
	return &LogTracer{log: l.Named("trace")}
}

// StartSpan logs the zone start and returns a span that logs its end.
func (t *LogTracer) StartSpan(name string, _ ...api.SpanOption) api.Span {
	t.log.Debug("zone begin", zap.String("zone", name))
	return &logSpan{log: t.log, name: name, start: time.Now()}
}

// SetThreadName logs the naming of the calling thread.
func (t *LogTracer) SetThreadName(name string) {
	t.log.Debug("thread named", zap.String("thread", name))
}

type logSpan struct {
	log    *zap.Logger
	name   string
	start  time.Time
	fields []zap.Field
}

func (s *logSpan) Finish() {
	fields := append([]zap.Field{
		zap.String("zone", s.name),
		zap.Duration("elapsed", time.Since(s.start)),
	}, s.fields...)
	s.log.Debug("zone end", fields...)
}

func (s *logSpan) SetTag(key string, value any) {
	s.fields = append(s.fields, zap.Any(key, value))
}

func (s *logSpan) Log(fields map[string]any) {
	zf := make([]zap.Field, 0, len(fields)+1)
	zf = append(zf, zap.String("zone", s.name))
	for k, v := range fields {
		zf = append(zf, zap.Any(k, v))
	}
	s.log.Debug("zone event", zf...)
}
