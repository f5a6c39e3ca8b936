package loop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func startLoop(t *testing.T) *Loop {
	t.Helper()
	l := New(Config{TickRate: time.Millisecond})
	require.NoError(t, l.Start(context.Background()))
	t.Cleanup(func() { _ = l.Stop() })
	return l
}

func TestPostRunsInArrivalOrder(t *testing.T) {
	l := startLoop(t)

	var mu sync.Mutex
	var got []int
	done := make(chan struct{})
	for i := 0; i < 50; i++ {
		i := i
		require.NoError(t, l.Post(func() {
			mu.Lock()
			got = append(got, i)
			n := len(got)
			mu.Unlock()
			if n == 50 {
				close(done)
			}
		}))
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("posts were not processed")
	}
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestPostQueueFull(t *testing.T) {
	l := New(Config{MaxPostsPerTick: 2})
	require.NoError(t, l.Post(func() {}))
	require.NoError(t, l.Post(func() {}))
	assert.ErrorIs(t, l.Post(func() {}), ErrQueueFull)
	require.NoError(t, l.Stop())
	assert.ErrorIs(t, l.Post(func() {}), ErrStopped)
}

func TestTimerFiresOnLoop(t *testing.T) {
	l := startLoop(t)
	fired := make(chan time.Time, 1)
	start := time.Now()
	l.AfterFunc(5*time.Millisecond, func() { fired <- time.Now() })

	select {
	case at := <-fired:
		assert.GreaterOrEqual(t, at.Sub(start), 5*time.Millisecond)
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestStoppedTimerNeverFires(t *testing.T) {
	l := startLoop(t)
	fired := make(chan struct{}, 1)
	timer := l.AfterFunc(20*time.Millisecond, func() { fired <- struct{}{} })
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	select {
	case <-fired:
		t.Fatal("stopped timer fired")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestTimerStoppedByEarlierTimerInSameTick(t *testing.T) {
	l := New(Config{TickRate: time.Hour})
	var second interface{ Stop() bool }
	ran := false
	l.AfterFunc(0, func() { second.Stop() })
	second = l.AfterFunc(0, func() { ran = true })

	// Drive a tick by hand; both timers are due.
	l.processTick(time.Now().Add(time.Millisecond))
	assert.False(t, ran)
	require.NoError(t, l.Stop())
}

func TestFrameCallbacks(t *testing.T) {
	l := startLoop(t)
	frames := make(chan time.Time, 10)
	unsubscribe := l.OnFrame(func(ts time.Time) {
		select {
		case frames <- ts:
		default:
		}
	})

	var prev time.Time
	for i := 0; i < 3; i++ {
		select {
		case ts := <-frames:
			assert.True(t, ts.After(prev))
			prev = ts
		case <-time.After(2 * time.Second):
			t.Fatal("no frame")
		}
	}
	unsubscribe()
	unsubscribe()
	assert.Greater(t, l.TickNumber(), uint64(0))
}

func TestFrameCallbacksRunInRegistrationOrder(t *testing.T) {
	l := startLoop(t)
	calls := make(chan string, 64)
	// Registering inside one post keeps all three in the same tick.
	require.NoError(t, l.Post(func() {
		for _, name := range []string{"a", "b", "c"} {
			t.Cleanup(l.OnFrame(func(time.Time) {
				select {
				case calls <- name:
				default:
				}
			}))
		}
	}))

	var got []string
	for len(got) < 3 {
		select {
		case name := <-calls:
			got = append(got, name)
		case <-time.After(2 * time.Second):
			t.Fatalf("frames so far %v", got)
		}
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestPanicInCallbackIsRecovered(t *testing.T) {
	l := startLoop(t)
	done := make(chan struct{})
	require.NoError(t, l.Post(func() { panic("boom") }))
	require.NoError(t, l.Post(func() { close(done) }))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop died after panic")
	}
}

func TestStartStopLifecycle(t *testing.T) {
	l := New(Config{TickRate: time.Millisecond})
	require.NoError(t, l.Start(context.Background()))
	assert.ErrorIs(t, l.Start(context.Background()), ErrStarted)
	require.NoError(t, l.Stop())
	require.NoError(t, l.Stop())
	assert.ErrorIs(t, l.Start(context.Background()), ErrStopped)
}
