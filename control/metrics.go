// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics for thread handles, exported as Prometheus collectors.
// Every method is safe on a nil *Metrics so callers never need to check.

package control

import (
	"errors"
	"fmt"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/momentics/hioload-thread/api"
)

// Metrics holds the thread lifecycle collectors.
type Metrics struct {
	created            prom.Counter
	createFailures     *prom.CounterVec
	live               prom.Gauge
	running            prom.Gauge
	overridesActive    prom.Gauge
	priorityApplied    *prom.CounterVec
	affinityApplied    prom.Counter
	bestEffortFailures *prom.CounterVec
	entryPanics        prom.Counter
}

// NewMetrics creates and registers the collectors under namespace. A nil
// registerer selects prom.DefaultRegisterer. Registering twice against the
// same registerer reuses the existing collectors.
func NewMetrics(namespace string, reg prom.Registerer) (*Metrics, error) {
	if namespace == "" {
		namespace = "hioload_thread"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	m := &Metrics{
		created: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "threads_created_total",
			Help:      "Threads successfully created.",
		}),
		createFailures: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "thread_create_failures_total",
			Help:      "Thread creations that failed, by error code.",
		}, []string{"code"}),
		live: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "threads_live",
			Help:      "Thread handles not yet destroyed.",
		}),
		running: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "threads_running",
			Help:      "Threads currently inside their entry function.",
		}),
		overridesActive: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "priority_overrides_active",
			Help:      "Priority overrides currently active.",
		}),
		priorityApplied: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "priority_applied_total",
			Help:      "Priority class changes pushed to the OS.",
		}, []string{"class"}),
		affinityApplied: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "affinity_applied_total",
			Help:      "Affinity requests accepted by the OS.",
		}),
		bestEffortFailures: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "best_effort_failures_total",
			Help:      "Naming, priority and affinity requests the OS rejected.",
		}, []string{"op"}),
		entryPanics: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "entry_panics_total",
			Help:      "Entry functions that panicked.",
		}),
	}

	var err error
	if m.created, err = registerCollector(reg, m.created); err != nil {
		return nil, err
	}
	if m.createFailures, err = registerCollector(reg, m.createFailures); err != nil {
		return nil, err
	}
	if m.live, err = registerCollector(reg, m.live); err != nil {
		return nil, err
	}
	if m.running, err = registerCollector(reg, m.running); err != nil {
		return nil, err
	}
	if m.overridesActive, err = registerCollector(reg, m.overridesActive); err != nil {
		return nil, err
	}
	if m.priorityApplied, err = registerCollector(reg, m.priorityApplied); err != nil {
		return nil, err
	}
	if m.affinityApplied, err = registerCollector(reg, m.affinityApplied); err != nil {
		return nil, err
	}
	if m.bestEffortFailures, err = registerCollector(reg, m.bestEffortFailures); err != nil {
		return nil, err
	}
	if m.entryPanics, err = registerCollector(reg, m.entryPanics); err != nil {
		return nil, err
	}
	return m, nil
}

func registerCollector[T prom.Collector](reg prom.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prom.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				var zero T
				return zero, fmt.Errorf("control: collector type mismatch: %T", are.ExistingCollector)
			}
			return existing, nil
		}
		var zero T
		return zero, err
	}
	return c, nil
}

// ThreadCreated counts a successful creation.
func (m *Metrics) ThreadCreated() {
	if m == nil {
		return
	}
	m.created.Inc()
	m.live.Inc()
}

// CreateFailed counts a failed creation.
func (m *Metrics) CreateFailed(code api.ErrorCode) {
	if m == nil {
		return
	}
	m.createFailures.WithLabelValues(code.String()).Inc()
}

// HandleDestroyed records the destruction of a handle.
func (m *Metrics) HandleDestroyed() {
	if m == nil {
		return
	}
	m.live.Dec()
}

// EntryStarted records a thread entering its entry function.
func (m *Metrics) EntryStarted() {
	if m == nil {
		return
	}
	m.running.Inc()
}

// EntryFinished records a thread leaving its entry function.
func (m *Metrics) EntryFinished() {
	if m == nil {
		return
	}
	m.running.Dec()
}

// EntryPanicked counts a recovered entry panic.
func (m *Metrics) EntryPanicked() {
	if m == nil {
		return
	}
	m.entryPanics.Inc()
}

// OverrideBegan records a new active override.
func (m *Metrics) OverrideBegan() {
	if m == nil {
		return
	}
	m.overridesActive.Inc()
}

// OverrideEnded records the end of an override.
func (m *Metrics) OverrideEnded() {
	if m == nil {
		return
	}
	m.overridesActive.Dec()
}

// OverridesDropped records overrides discarded with their handle.
func (m *Metrics) OverridesDropped(n int) {
	if m == nil {
		return
	}
	m.overridesActive.Sub(float64(n))
}

// PriorityApplied counts a priority change pushed to the OS.
func (m *Metrics) PriorityApplied(class api.PriorityClass) {
	if m == nil {
		return
	}
	m.priorityApplied.WithLabelValues(class.String()).Inc()
}

// AffinityApplied counts an accepted affinity request.
func (m *Metrics) AffinityApplied() {
	if m == nil {
		return
	}
	m.affinityApplied.Inc()
}

// BestEffortFailed counts a rejected naming/priority/affinity request.
func (m *Metrics) BestEffortFailed(op string) {
	if m == nil {
		return
	}
	if op == "" {
		op = "unknown"
	}
	m.bestEffortFailures.WithLabelValues(op).Inc()
}
