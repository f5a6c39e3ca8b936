package gate

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePerf is a PerformanceSignal driven directly by the test.
type fakePerf struct {
	ok   bool
	subs []func(bool)
}

func (f *fakePerf) CanAnimate() bool { return f.ok }

func (f *fakePerf) OnChange(fn func(bool)) func() {
	f.subs = append(f.subs, fn)
	return func() { f.subs = nil }
}

func (f *fakePerf) set(ok bool) {
	f.ok = ok
	for _, fn := range f.subs {
		fn(ok)
	}
}

func TestShouldAnimateIsConjunctionOfInputs(t *testing.T) {
	pref := NewPreference(false)
	perf := &fakePerf{ok: true}
	g := NewGate(false)
	r := NewResolver(g, pref, perf)
	defer r.Close()

	// Walk every input combination, flipping one input at a time.
	steps := []struct {
		reduced, perfOK bool
	}{
		{false, true}, {true, true}, {true, false}, {false, false},
		{false, true}, {false, false}, {true, false}, {true, true}, {false, true},
	}
	for i, s := range steps {
		pref.Set(s.reduced)
		perf.set(s.perfOK)
		assert.Equal(t, !s.reduced && s.perfOK, g.ShouldAnimate(), "step %d", i)
	}
}

func TestSubscribersSeeEveryChange(t *testing.T) {
	pref := NewPreference(false)
	g := NewGate(true)
	r := NewResolver(g, pref, nil)
	defer r.Close()

	var got []bool
	current, sub := g.Subscribe(func(v bool) { got = append(got, v) })
	assert.True(t, current)

	pref.Set(true)
	pref.Set(true) // no change
	pref.Set(false)
	assert.Equal(t, []bool{false, true}, got)

	sub.Close()
	sub.Close()
	pref.Set(true)
	assert.Len(t, got, 2)
}

func TestNilInputsAllowMotion(t *testing.T) {
	g := NewGate(false)
	NewResolver(g, nil, nil)
	assert.True(t, g.ShouldAnimate())
}

func TestForceReducedMotion(t *testing.T) {
	g := NewGate(true)
	r := NewResolver(g, NewPreference(false), nil, WithForceReducedMotion(true))
	defer r.Close()
	assert.False(t, g.ShouldAnimate())
}

func TestChangeHookAndClose(t *testing.T) {
	pref := NewPreference(false)
	g := NewGate(true)
	var changes []bool
	r := NewResolver(g, pref, nil, WithChangeHook(func(v bool) { changes = append(changes, v) }))

	pref.Set(true)
	require.Equal(t, []bool{false}, changes)

	r.Close()
	r.Close()
	pref.Set(false)
	assert.Equal(t, []bool{false}, changes, "closed resolver must not react")
	assert.False(t, g.ShouldAnimate())
}

type frames struct {
	fn func(time.Time)
}

func (f *frames) OnFrame(fn func(time.Time)) func() {
	f.fn = fn
	return func() { f.fn = nil }
}

func feed(src *frames, start time.Time, n int, delta time.Duration) time.Time {
	ts := start
	for i := 0; i < n; i++ {
		ts = ts.Add(delta)
		src.fn(ts)
	}
	return ts
}

func TestSamplerVerdictCadence(t *testing.T) {
	s := NewSampler(SamplerConfig{Window: 10, Budget: 20 * time.Millisecond})
	src := &frames{}
	require.NoError(t, s.Start(src))

	var verdicts []bool
	s.OnChange(func(v bool) { verdicts = append(verdicts, v) })

	ts := time.Unix(0, 0)
	src.fn(ts)

	// Nine slow frames: window not yet full, verdict unchanged.
	ts = feed(src, ts, 9, 50*time.Millisecond)
	assert.True(t, s.CanAnimate())

	// Tenth slow delta completes the window.
	ts = feed(src, ts, 1, 50*time.Millisecond)
	assert.False(t, s.CanAnimate())
	assert.Equal(t, 50*time.Millisecond, s.Mean())

	// A burst of fast frames within one window does not flip the verdict
	// before the cadence comes around.
	ts = feed(src, ts, 9, 10*time.Millisecond)
	assert.False(t, s.CanAnimate())
	feed(src, ts, 1, 10*time.Millisecond)
	assert.True(t, s.CanAnimate())

	assert.Equal(t, []bool{false, true}, verdicts)
}

func TestSamplerIgnoresSuspendedGaps(t *testing.T) {
	s := NewSampler(SamplerConfig{Window: 3, Budget: 20 * time.Millisecond})
	src := &frames{}
	require.NoError(t, s.Start(src))

	ts := time.Unix(0, 0)
	src.fn(ts)
	ts = feed(src, ts, 1, 5*time.Second)
	feed(src, ts, 3, 16*time.Millisecond)
	assert.True(t, s.CanAnimate())
	assert.Equal(t, 16*time.Millisecond, s.Mean())
}

func TestSamplerStartStop(t *testing.T) {
	s := NewSampler(SamplerConfig{})
	assert.ErrorIs(t, s.Start(nil), ErrNoFrameSource)
	assert.True(t, s.CanAnimate())

	src := &frames{}
	require.NoError(t, s.Start(src))
	require.NotNil(t, src.fn)
	s.Stop()
	s.Stop()
	assert.Nil(t, src.fn)
}

func TestSamplerDrivesResolver(t *testing.T) {
	s := NewSampler(SamplerConfig{Window: 2, Budget: 20 * time.Millisecond})
	src := &frames{}
	require.NoError(t, s.Start(src))
	g := NewGate(true)
	r := NewResolver(g, NewPreference(false), s)
	defer r.Close()

	ts := time.Unix(0, 0)
	src.fn(ts)
	ts = feed(src, ts, 2, 40*time.Millisecond)
	assert.False(t, g.ShouldAnimate())
	feed(src, ts, 2, 10*time.Millisecond)
	assert.True(t, g.ShouldAnimate())
}

func TestConcurrentInputsLeaveGateOnLatestValue(t *testing.T) {
	for round := 0; round < 50; round++ {
		g := NewGate(true)
		r := NewResolver(g, nil, nil)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					r.setReduced((i+j)%2 == 0)
				}
			}()
		}
		wg.Wait()

		r.mu.Lock()
		want := !r.reduced
		r.mu.Unlock()
		require.Equal(t, want, g.ShouldAnimate(), "round %d", round)
		r.Close()
	}
}
