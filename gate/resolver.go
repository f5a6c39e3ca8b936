package gate

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// AccessibilitySource reports the user's reduced-motion preference, which
// may change while the program runs.
type AccessibilitySource interface {
	PrefersReducedMotion() bool
	OnChange(fn func(reduced bool)) (unsubscribe func())
}

// PerformanceSignal is the verdict half of the gate. *Sampler implements it.
type PerformanceSignal interface {
	CanAnimate() bool
	OnChange(fn func(canAnimate bool)) (unsubscribe func())
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for gate changes.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// WithForceReducedMotion treats the accessibility input as always
// requesting reduced motion.
func WithForceReducedMotion(force bool) Option {
	return func(r *Resolver) {
		r.force = force
	}
}

// WithChangeHook calls fn after every gate change.
func WithChangeHook(fn func(shouldAnimate bool)) Option {
	return func(r *Resolver) {
		r.hook = fn
	}
}

// Resolver combines the accessibility preference and the performance
// verdict into the gate: shouldAnimate = !reduced && canAnimate. It
// recomputes synchronously on every input change.
type Resolver struct {
	gate   *Gate
	logger *zap.Logger
	force  bool
	hook   func(bool)

	// setMu orders recomputes so the gate ends on the latest inputs. Gate
	// subscribers and the change hook run under it and must not feed the
	// resolver's inputs synchronously.
	setMu sync.Mutex

	mu      sync.Mutex
	reduced bool
	perfOK  bool
	unsubs  []func()
	closed  bool
}

// NewResolver wires a11y and perf into g. Either input may be nil: a missing
// accessibility source allows motion, a missing performance signal never
// vetoes it.
func NewResolver(g *Gate, a11y AccessibilitySource, perf PerformanceSignal, opts ...Option) *Resolver {
	r := &Resolver{gate: g, logger: zap.NewNop(), perfOK: true}
	for _, opt := range opts {
		opt(r)
	}

	if a11y != nil {
		r.reduced = a11y.PrefersReducedMotion()
		r.unsubs = append(r.unsubs, a11y.OnChange(r.setReduced))
	}
	if perf != nil {
		r.perfOK = perf.CanAnimate()
		r.unsubs = append(r.unsubs, perf.OnChange(r.setPerformance))
	}
	r.recompute()
	return r
}

// Gate returns the gate the resolver writes.
func (r *Resolver) Gate() *Gate { return r.gate }

// Close releases the input subscriptions. Safe to call more than once.
func (r *Resolver) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	unsubs := r.unsubs
	r.unsubs = nil
	r.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
}

func (r *Resolver) setReduced(reduced bool) {
	r.mu.Lock()
	r.reduced = reduced
	r.mu.Unlock()
	r.recompute()
}

func (r *Resolver) setPerformance(ok bool) {
	r.mu.Lock()
	r.perfOK = ok
	r.mu.Unlock()
	r.recompute()
}

func (r *Resolver) recompute() {
	r.setMu.Lock()
	defer r.setMu.Unlock()

	r.mu.Lock()
	reduced := r.reduced || r.force
	perfOK := r.perfOK
	r.mu.Unlock()

	v := !reduced && perfOK
	if r.gate.set(v) {
		r.logger.Debug("motion gate changed",
			zap.Bool("should_animate", v),
			zap.Bool("reduced_motion", reduced),
			zap.Bool("performance_ok", perfOK),
		)
		if r.hook != nil {
			r.hook(v)
		}
	}
}

// Preference is an AccessibilitySource set by the host, for environments
// that push the media-query result rather than expose it.
type Preference struct {
	// setMu orders recomputes so the gate ends on the latest inputs. Gate
	// subscribers and the change hook run under it and must not feed the
	// resolver's inputs synchronously.
	setMu sync.Mutex

	mu      sync.Mutex
	reduced bool
	nextID  uint64
	subs    map[uint64]func(bool)
}

// NewPreference returns a preference with the given initial value.
func NewPreference(reduced bool) *Preference {
	return &Preference{reduced: reduced, subs: make(map[uint64]func(bool))}
}

func (p *Preference) PrefersReducedMotion() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reduced
}

func (p *Preference) OnChange(fn func(reduced bool)) (unsubscribe func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// Set updates the preference and notifies subscribers on change.
func (p *Preference) Set(reduced bool) {
	p.mu.Lock()
	if p.reduced == reduced {
		p.mu.Unlock()
		return
	}
	p.reduced = reduced
	ids := make([]uint64, 0, len(p.subs))
	for id := range p.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(bool), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, p.subs[id])
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(reduced)
	}
}
