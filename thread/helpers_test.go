// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package thread

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-thread/control"
	"github.com/momentics/hioload-thread/fake"
	"github.com/momentics/hioload-thread/tracing"
)

const waitTimeout = 5 * time.Second

type harness struct {
	platform *fake.Platform
	recorder *tracing.Recorder
	registry *Registry
	reg      *prom.Registry
	metrics  *control.Metrics
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	reg := prom.NewRegistry()
	m, err := control.NewMetrics("test", reg)
	require.NoError(t, err)
	return &harness{
		platform: fake.NewPlatform(),
		recorder: tracing.NewRecorder(0),
		registry: NewRegistry(),
		reg:      reg,
		metrics:  m,
	}
}

func (hs *harness) opts() []Option {
	return []Option{
		WithPlatform(hs.platform),
		WithTracer(hs.recorder),
		WithRegistry(hs.registry),
		WithMetrics(hs.metrics),
	}
}

func waitClosed(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for thread to finish")
	}
}
