// Package gate decides whether anything may animate.
//
// The Gate is a single process-wide boolean, shouldAnimate, derived by the
// Resolver from the user's reduced-motion preference and the performance
// Sampler's verdict. Consumers subscribe to it instead of reading a
// snapshot, so that a preference change at runtime reaches every mounted
// primitive.
package gate

import (
	"sort"
	"sync"
)

// Gate holds the derived shouldAnimate flag. Only a Resolver writes it.
// Safe for concurrent use.
type Gate struct {
	mu     sync.RWMutex
	value  bool
	nextID uint64
	subs   map[uint64]func(bool)
}

// NewGate returns a gate with the given initial value.
func NewGate(initial bool) *Gate {
	return &Gate{value: initial, subs: make(map[uint64]func(bool))}
}

// ShouldAnimate reports the current value.
func (g *Gate) ShouldAnimate() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.value
}

// Subscription ends a Subscribe registration.
type Subscription struct {
	once sync.Once
	stop func()
}

// Close unregisters the callback. Safe to call more than once.
func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(s.stop)
}

// Subscribe registers fn to receive every change of the gate and returns
// the current value. fn is not called for the current value.
func (g *Gate) Subscribe(fn func(shouldAnimate bool)) (bool, *Subscription) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.nextID
	g.nextID++
	g.subs[id] = fn
	return g.value, &Subscription{stop: func() {
		g.mu.Lock()
		delete(g.subs, id)
		g.mu.Unlock()
	}}
}

// set stores v and notifies subscribers when it changed. Callbacks run
// outside the lock in registration order.
func (g *Gate) set(v bool) bool {
	g.mu.Lock()
	if g.value == v {
		g.mu.Unlock()
		return false
	}
	g.value = v
	ids := make([]uint64, 0, len(g.subs))
	for id := range g.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(bool), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, g.subs[id])
	}
	g.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
	return true
}
