// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package thread

import (
	"go.uber.org/zap"

	"github.com/momentics/hioload-thread/api"
	"github.com/momentics/hioload-thread/control"
	"github.com/momentics/hioload-thread/internal/concurrency"
	"github.com/momentics/hioload-thread/internal/logging"
	"github.com/momentics/hioload-thread/tracing"
)

// Option configures the collaborators of a Handle.
type Option func(*options)

type options struct {
	platform api.Platform
	tracer   api.Tracer
	log      *zap.Logger
	metrics  *control.Metrics
	registry *Registry
}

// WithPlatform replaces the OS scheduling facility.
func WithPlatform(p api.Platform) Option {
	return func(o *options) { o.platform = p }
}

// WithTracer sets the tracing collaborator.
func WithTracer(t api.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// WithLogger sets the logger used for best-effort diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics sets the metrics sink. A nil sink records nothing.
func WithMetrics(m *control.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithRegistry tracks the handle in r while it is alive.
func WithRegistry(r *Registry) Option {
	return func(o *options) { o.registry = r }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.platform == nil {
		o.platform = concurrency.Default()
	}
	o.tracer = tracing.OrNop(o.tracer)
	o.log = logging.OrNop(o.log)
	return o
}
