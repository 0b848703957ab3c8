// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package thread

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-thread/api"
)

type applyLog struct {
	mu      sync.Mutex
	applied []api.PriorityClass
}

func (a *applyLog) apply(c api.PriorityClass) {
	a.mu.Lock()
	a.applied = append(a.applied, c)
	a.mu.Unlock()
}

func (a *applyLog) get() []api.PriorityClass {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]api.PriorityClass(nil), a.applied...)
}

func TestOverrideList_HighestWins(t *testing.T) {
	var log applyLog
	l := NewOverrideList(api.PriorityNormal, log.apply)

	high := l.Add(api.PriorityHigh)
	low := l.Add(api.PriorityLow)
	assert.Equal(t, api.PriorityHigh, l.Current())
	assert.Equal(t, 2, l.Len())

	high.End()
	assert.Equal(t, api.PriorityLow, l.Current())
	low.End()
	assert.Equal(t, api.PriorityNormal, l.Current())
	assert.Zero(t, l.Len())

	assert.Equal(t, []api.PriorityClass{api.PriorityHigh, api.PriorityLow, api.PriorityNormal}, log.get())
}

func TestOverrideList_ApplyOnlyOnChange(t *testing.T) {
	var log applyLog
	l := NewOverrideList(api.PriorityNormal, log.apply)

	a := l.Add(api.PriorityHigh)
	b := l.Add(api.PriorityHigh)
	c := l.Add(api.PriorityNormal)
	a.End()
	c.End()
	assert.Equal(t, []api.PriorityClass{api.PriorityHigh}, log.get())
	b.End()
	assert.Equal(t, []api.PriorityClass{api.PriorityHigh, api.PriorityNormal}, log.get())
}

func TestOverrideList_OverrideReplacesBase(t *testing.T) {
	var log applyLog
	l := NewOverrideList(api.PriorityLow, log.apply)
	o := l.Add(api.PriorityLowest)
	assert.Equal(t, api.PriorityLowest, l.Current())
	o.End()
	assert.Equal(t, api.PriorityLow, l.Current())
	assert.Equal(t, api.PriorityLow, l.Base())
	assert.Equal(t, []api.PriorityClass{api.PriorityLowest, api.PriorityLow}, log.get())
}

func TestOverrideList_HighBaseLowOverrides(t *testing.T) {
	var log applyLog
	l := NewOverrideList(api.PriorityHigh, log.apply)
	low := l.Add(api.PriorityLow)
	normal := l.Add(api.PriorityNormal)
	assert.Equal(t, api.PriorityNormal, l.Current())
	normal.End()
	assert.Equal(t, api.PriorityLow, l.Current())
	low.End()
	assert.Equal(t, api.PriorityHigh, l.Current())
	assert.Equal(t, []api.PriorityClass{api.PriorityLow, api.PriorityNormal, api.PriorityLow, api.PriorityHigh}, log.get())
}

func TestOverrideList_EndIsIdempotent(t *testing.T) {
	l := NewOverrideList(api.PriorityNormal, nil)
	o := l.Add(api.PriorityHighest)
	o.End()
	o.End()
	assert.Equal(t, api.PriorityNormal, l.Current())
	assert.Equal(t, api.PriorityHighest, o.Class())

	var nilOverride *Override
	nilOverride.End()
	assert.Equal(t, api.PriorityNormal, nilOverride.Class())
}

func TestOverrideList_AnyRemovalOrderConverges(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		base := api.PriorityClasses[rng.Intn(len(api.PriorityClasses))]
		var log applyLog
		l := NewOverrideList(base, log.apply)

		n := 1 + rng.Intn(8)
		active := make([]*Override, 0, n)
		for i := 0; i < n; i++ {
			active = append(active, l.Add(api.PriorityClasses[rng.Intn(len(api.PriorityClasses))]))
		}
		rng.Shuffle(len(active), func(i, j int) { active[i], active[j] = active[j], active[i] })

		for len(active) > 0 {
			active[0].End()
			active = active[1:]
			want := base
			for i, o := range active {
				if i == 0 || o.Class() > want {
					want = o.Class()
				}
			}
			require.Equal(t, want, l.Current(), "round %d", round)
		}
		require.Equal(t, base, l.Current())
		if applied := log.get(); len(applied) > 0 {
			require.Equal(t, base, applied[len(applied)-1], "last applied class must be the base")
		}
	}
}

func TestOverrideList_ConcurrentBeginEnd(t *testing.T) {
	var log applyLog
	l := NewOverrideList(api.PriorityNormal, log.apply)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				o := l.Add(api.PriorityClasses[(i+j)%len(api.PriorityClasses)])
				o.End()
			}
		}(i)
	}
	wg.Wait()
	assert.Zero(t, l.Len())
	assert.Equal(t, api.PriorityNormal, l.Current())
	if applied := log.get(); len(applied) > 0 {
		assert.Equal(t, api.PriorityNormal, applied[len(applied)-1])
	}
}

func TestOverrideList_CloseDropsActive(t *testing.T) {
	var log applyLog
	l := NewOverrideList(api.PriorityNormal, log.apply)
	l.Add(api.PriorityHigh)
	l.Add(api.PriorityLowest)
	assert.Equal(t, 2, l.Close())
	assert.Equal(t, api.PriorityNormal, l.Current())
	assert.Equal(t, []api.PriorityClass{api.PriorityHigh}, log.get())
}

func TestBeginOverride_AppliesToThread(t *testing.T) {
	hs := newHarness(t)
	h, err := Create(func(any) int { return 0 }, nil, api.CreateParams{Name: "boosted", CreateSuspended: true}, hs.opts()...)
	require.NoError(t, err)

	var high, low *Override
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); high = h.BeginOverride(api.PriorityHigh) }()
	go func() { defer wg.Done(); low = h.BeginOverride(api.PriorityLow) }()
	wg.Wait()

	assert.Equal(t, api.PriorityHigh, h.Priority())
	last, ok := hs.platform.LastPriority(h.ID())
	require.True(t, ok)
	assert.Equal(t, api.PriorityHigh, last)

	high.End()
	assert.Equal(t, api.PriorityLow, h.Priority())
	last, _ = hs.platform.LastPriority(h.ID())
	assert.Equal(t, api.PriorityLow, last)

	low.End()
	assert.Equal(t, api.PriorityNormal, h.Priority())
	last, _ = hs.platform.LastPriority(h.ID())
	assert.Equal(t, api.PriorityNormal, last)
	assert.Equal(t, api.PriorityNormal, h.BasePriority())

	done := h.Done()
	h.Release()
	waitClosed(t, done)
}

func TestBeginOverride_PriorityFailureIsSilent(t *testing.T) {
	hs := newHarness(t)
	hs.platform.PriorityErr = assert.AnError
	h, err := Create(func(any) int { return 0 }, nil, api.CreateParams{CreateSuspended: true}, hs.opts()...)
	require.NoError(t, err)

	o := h.BeginOverride(api.PriorityHighest)
	assert.Equal(t, api.PriorityHighest, h.Priority())
	o.End()

	expected := `
# HELP test_best_effort_failures_total Naming, priority and affinity requests the OS rejected.
# TYPE test_best_effort_failures_total counter
test_best_effort_failures_total{op="priority"} 2
`
	require.NoError(t, testutil.GatherAndCompare(hs.reg, strings.NewReader(expected),
		"test_best_effort_failures_total"))

	done := h.Done()
	h.Release()
	waitClosed(t, done)
}

func TestBeginOverride_SkippedWithoutPrioritySupport(t *testing.T) {
	hs := newHarness(t)
	hs.platform.SetCapabilities(api.Capabilities{Naming: true})
	h, err := Create(func(any) int { return 0 }, nil,
		api.CreateParams{CreateSuspended: true, Priority: api.PriorityHigh}, hs.opts()...)
	require.NoError(t, err)

	o := h.BeginOverride(api.PriorityHighest)
	assert.Equal(t, api.PriorityHighest, h.Priority())
	o.End()
	assert.Empty(t, hs.platform.Priorities(h.ID()))

	done := h.Done()
	h.Release()
	waitClosed(t, done)
}

func TestDestroy_DropsActiveOverrides(t *testing.T) {
	hs := newHarness(t)
	h, err := Create(func(any) int { return 0 }, nil, api.CreateParams{CreateSuspended: true}, hs.opts()...)
	require.NoError(t, err)
	o := h.BeginOverride(api.PriorityHigh)

	done := h.Done()
	h.Release()
	waitClosed(t, done)
	require.Eventually(t, func() bool { return h.destroyed.Load() }, waitTimeout, time.Millisecond)

	// Ending after destruction is harmless.
	o.End()
	expected := `
# HELP test_priority_overrides_active Priority overrides currently active.
# TYPE test_priority_overrides_active gauge
test_priority_overrides_active 0
`
	require.NoError(t, testutil.GatherAndCompare(hs.reg, strings.NewReader(expected),
		"test_priority_overrides_active"))
}

func TestBeginOverride_RestoreRejectedByOS(t *testing.T) {
	hs := newHarness(t)
	// Unprivileged Linux processes may lower a thread's priority but not
	// raise it back.
	hs.platform.PriorityCheck = func(prev, next api.PriorityClass) error {
		if next > prev {
			return errors.New("EACCES")
		}
		return nil
	}
	h, err := Create(func(any) int { return 0 }, nil, api.CreateParams{CreateSuspended: true}, hs.opts()...)
	require.NoError(t, err)

	o := h.BeginOverride(api.PriorityLowest)
	assert.Equal(t, api.PriorityLowest, h.Priority())
	o.End()
	assert.Equal(t, api.PriorityNormal, h.Priority())
	assert.Equal(t, []api.PriorityClass{api.PriorityLowest, api.PriorityNormal}, hs.platform.Priorities(h.ID()))

	expected := `
# HELP test_best_effort_failures_total Naming, priority and affinity requests the OS rejected.
# TYPE test_best_effort_failures_total counter
test_best_effort_failures_total{op="priority"} 1
`
	require.NoError(t, testutil.GatherAndCompare(hs.reg, strings.NewReader(expected),
		"test_best_effort_failures_total"))

	done := h.Done()
	h.Release()
	waitClosed(t, done)
}
