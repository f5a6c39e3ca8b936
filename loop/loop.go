package loop

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/comalice/motionx/clock"
)

var (
	ErrQueueFull = errors.New("loop: post queue full")
	ErrStopped   = errors.New("loop: stopped")
	ErrStarted   = errors.New("loop: already started")
)

// Config configures the loop.
type Config struct {
	TickRate        time.Duration // Fixed tick rate (default 16.667ms, 60 FPS)
	MaxPostsPerTick int           // Post queue capacity per tick (default 1000)
	Logger          *zap.Logger
}

// posted adds sequencing metadata for arrival ordering.
type posted struct {
	fn  func()
	seq uint64
}

// Loop runs posted work, timers and frame callbacks on one goroutine.
type Loop struct {
	tickRate time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	batch   []posted
	seq     uint64
	timers  []*timer
	frames  map[uint64]func(time.Time)
	frameID uint64
	tickNum uint64
	started bool
	closed  bool

	cancel   context.CancelFunc
	stopped  chan struct{}
	stopOnce sync.Once
}

var _ clock.Clock = (*Loop)(nil)

// New creates a loop. Start must be called before work is processed.
func New(cfg Config) *Loop {
	if cfg.MaxPostsPerTick == 0 {
		cfg.MaxPostsPerTick = 1000
	}
	if cfg.TickRate == 0 {
		cfg.TickRate = 16667 * time.Microsecond
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Loop{
		tickRate: cfg.TickRate,
		logger:   cfg.Logger,
		batch:    make([]posted, 0, cfg.MaxPostsPerTick),
		frames:   make(map[uint64]func(time.Time)),
		stopped:  make(chan struct{}),
	}
}

// Start launches the loop goroutine. It runs until ctx is cancelled or Stop
// is called.
func (l *Loop) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrStopped
	}
	if l.started {
		return ErrStarted
	}
	l.started = true

	tickCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	go l.run(tickCtx)
	return nil
}

// Stop halts the loop and waits for the goroutine to exit. Pending posts and
// timers are discarded. Safe to call more than once.
func (l *Loop) Stop() error {
	l.stopOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		started := l.started
		cancel := l.cancel
		l.mu.Unlock()

		if !started {
			close(l.stopped)
			return
		}
		cancel()
		<-l.stopped
	})
	return nil
}

func (l *Loop) run(ctx context.Context) {
	defer close(l.stopped)
	ticker := time.NewTicker(l.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.processTick(now)
		}
	}
}

// processTick processes one complete tick.
func (l *Loop) processTick(now time.Time) {
	// Phase 1: posted work, FIFO
	work := l.collectPosts()
	sort.SliceStable(work, func(i, j int) bool { return work[i].seq < work[j].seq })
	for _, p := range work {
		l.safely("post", p.fn)
	}

	// Phase 2: due timers
	for _, t := range l.collectDue(now) {
		t.fire(l)
	}

	// Phase 3: frames
	for _, fn := range l.frameCallbacks() {
		l.safely("frame", func() { fn(now) })
	}

	l.mu.Lock()
	l.tickNum++
	l.mu.Unlock()
}

// collectPosts atomically retrieves and clears the post batch.
func (l *Loop) collectPosts() []posted {
	l.mu.Lock()
	defer l.mu.Unlock()
	work := l.batch
	l.batch = make([]posted, 0, cap(l.batch))
	return work
}

func (l *Loop) collectDue(now time.Time) []*timer {
	l.mu.Lock()
	defer l.mu.Unlock()
	sort.SliceStable(l.timers, func(i, j int) bool {
		if !l.timers[i].deadline.Equal(l.timers[j].deadline) {
			return l.timers[i].deadline.Before(l.timers[j].deadline)
		}
		return l.timers[i].seq < l.timers[j].seq
	})
	n := 0
	for n < len(l.timers) && !l.timers[n].deadline.After(now) {
		n++
	}
	due := append([]*timer(nil), l.timers[:n]...)
	l.timers = append(l.timers[:0], l.timers[n:]...)
	return due
}

func (l *Loop) frameCallbacks() []func(time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := make([]uint64, 0, len(l.frames))
	for id := range l.frames {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]func(time.Time), 0, len(ids))
	for _, id := range ids {
		out = append(out, l.frames[id])
	}
	return out
}

func (l *Loop) safely(phase string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("recovered panic in loop callback",
				zap.String("phase", phase),
				zap.Any("panic", r),
			)
		}
	}()
	fn()
}

// Post queues fn for the next tick. Safe for concurrent use.
func (l *Loop) Post(fn func()) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrStopped
	}
	if len(l.batch) >= cap(l.batch) {
		return ErrQueueFull
	}
	l.batch = append(l.batch, posted{fn: fn, seq: l.seq})
	l.seq++
	return nil
}

// Now returns the wall clock time.
func (l *Loop) Now() time.Time { return time.Now() }

// AfterFunc schedules f on the loop goroutine once d has elapsed, at tick
// granularity.
func (l *Loop) AfterFunc(d time.Duration, f func()) clock.Timer {
	l.mu.Lock()
	defer l.mu.Unlock()
	t := &timer{deadline: time.Now().Add(d), seq: l.seq, fn: f}
	l.seq++
	if !l.closed {
		l.timers = append(l.timers, t)
	} else {
		t.stopped = true
	}
	t.loop = l
	return t
}

// OnFrame registers fn to run once per tick with the tick timestamp.
func (l *Loop) OnFrame(fn func(time.Time)) (unsubscribe func()) {
	l.mu.Lock()
	id := l.frameID
	l.frameID++
	l.frames[id] = fn
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.frames, id)
			l.mu.Unlock()
		})
	}
}

// TickNumber returns the number of completed ticks.
func (l *Loop) TickNumber() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tickNum
}

type timer struct {
	loop     *Loop
	deadline time.Time
	seq      uint64
	fn       func()
	stopped  bool
}

// fire runs the callback unless Stop won the race inside this tick.
func (t *timer) fire(l *Loop) {
	l.mu.Lock()
	if t.stopped {
		l.mu.Unlock()
		return
	}
	t.stopped = true
	l.mu.Unlock()
	l.safely("timer", t.fn)
}

func (t *timer) Stop() bool {
	l := t.loop
	l.mu.Lock()
	defer l.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	for i, other := range l.timers {
		if other == t {
			l.timers = append(l.timers[:i], l.timers[i+1:]...)
			break
		}
	}
	return true
}
