package gate

import (
	"errors"
	"sort"
	"time"
)

// ErrNoFrameSource is returned when sampling is started without a frame
// source. The sampler then keeps its optimistic verdict.
var ErrNoFrameSource = errors.New("gate: no frame source")

// FrameSource delivers one timestamp per rendered frame.
type FrameSource interface {
	OnFrame(fn func(ts time.Time)) (unsubscribe func())
}

// SamplerConfig tunes the performance verdict.
type SamplerConfig struct {
	// Window is the number of frame deltas averaged, and also the cadence:
	// the verdict is recomputed once every Window frames. Default 60.
	Window int
	// Budget is the mean frame time above which motion is disabled.
	// Default 1s/30.
	Budget time.Duration
	// MaxDelta discards gaps longer than this (a backgrounded tab is not a
	// slow device). Default 1s.
	MaxDelta time.Duration
}

// Sampler reduces a stream of frame timestamps to a CanAnimate verdict.
// Not safe for concurrent use; frames must arrive on the owning loop.
type Sampler struct {
	cfg SamplerConfig

	deltas []time.Duration
	next   int
	filled int
	since  int
	last   time.Time
	primed bool

	canAnimate  bool
	nextID      uint64
	subs        map[uint64]func(bool)
	unsubscribe func()
}

// NewSampler returns a sampler whose verdict is true until the first full
// window has been measured.
func NewSampler(cfg SamplerConfig) *Sampler {
	if cfg.Window <= 0 {
		cfg.Window = 60
	}
	if cfg.Budget <= 0 {
		cfg.Budget = time.Second / 30
	}
	if cfg.MaxDelta <= 0 {
		cfg.MaxDelta = time.Second
	}
	return &Sampler{
		cfg:        cfg,
		deltas:     make([]time.Duration, cfg.Window),
		canAnimate: true,
		subs:       make(map[uint64]func(bool)),
	}
}

// Start subscribes to src. A nil source leaves the verdict at true.
func (s *Sampler) Start(src FrameSource) error {
	if src == nil {
		return ErrNoFrameSource
	}
	s.Stop()
	s.unsubscribe = src.OnFrame(s.Frame)
	return nil
}

// Stop releases the frame subscription. Safe to call more than once.
func (s *Sampler) Stop() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.primed = false
}

// Frame records one frame timestamp.
func (s *Sampler) Frame(ts time.Time) {
	if !s.primed {
		s.last = ts
		s.primed = true
		return
	}
	delta := ts.Sub(s.last)
	s.last = ts
	if delta <= 0 || delta > s.cfg.MaxDelta {
		return
	}

	s.deltas[s.next] = delta
	s.next = (s.next + 1) % len(s.deltas)
	if s.filled < len(s.deltas) {
		s.filled++
	}
	s.since++
	if s.since < s.cfg.Window || s.filled < len(s.deltas) {
		return
	}
	s.since = 0
	s.setVerdict(s.Mean() <= s.cfg.Budget)
}

// Mean returns the average of the sampled frame deltas.
func (s *Sampler) Mean() time.Duration {
	if s.filled == 0 {
		return 0
	}
	var sum time.Duration
	for i := 0; i < s.filled; i++ {
		sum += s.deltas[i]
	}
	return sum / time.Duration(s.filled)
}

// CanAnimate reports the last verdict.
func (s *Sampler) CanAnimate() bool { return s.canAnimate }

// OnChange registers fn for verdict changes.
func (s *Sampler) OnChange(fn func(canAnimate bool)) (unsubscribe func()) {
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

func (s *Sampler) setVerdict(v bool) {
	if v == s.canAnimate {
		return
	}
	s.canAnimate = v
	ids := make([]uint64, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if fn, ok := s.subs[id]; ok {
			fn(v)
		}
	}
}
