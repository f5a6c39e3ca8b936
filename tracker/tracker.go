// Package tracker samples continuously changing input: scroll progress for
// the page and for single elements, window resizing, and pointer motion.
//
// Each tracker is pull-based and driven by its event stream; none of them
// poll. Quiet-period flags (IsResizing, IsMoving) use cancel-and-restart
// debouncing on the injected clock. Trackers are not safe for concurrent use.
package tracker

import (
	"errors"
	"sort"
	"time"

	"github.com/comalice/motionx/clock"
)

// ErrUnsupported is returned when the host lacks the event stream a tracker
// needs.
var ErrUnsupported = errors.New("tracker: event source unsupported")

// Default quiet periods.
const (
	DefaultResizeQuiet  = 150 * time.Millisecond
	DefaultPointerQuiet = 100 * time.Millisecond
)

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// listeners is an ordered callback set.
type listeners[T any] struct {
	next int
	fns  map[int]func(T)
}

func (l *listeners[T]) add(fn func(T)) (remove func()) {
	if l.fns == nil {
		l.fns = make(map[int]func(T))
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	return func() { delete(l.fns, id) }
}

func (l *listeners[T]) emit(v T) {
	ids := make([]int, 0, len(l.fns))
	for id := range l.fns {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := l.fns[id]; ok {
			fn(v)
		}
	}
}

func (l *listeners[T]) clear() { l.fns = nil }

// debouncer runs fn once quiet has passed since the last poke.
type debouncer struct {
	clk   clock.Clock
	quiet time.Duration
	fn    func()
	timer clock.Timer
	gen   uint64
}

// poke cancels any pending run and schedules a new one.
func (d *debouncer) poke() {
	d.cancel()
	gen := d.gen
	d.timer = d.clk.AfterFunc(d.quiet, func() {
		if gen != d.gen {
			return
		}
		d.timer = nil
		d.fn()
	})
}

// cancel drops the pending run. Safe to call more than once.
func (d *debouncer) cancel() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
