// Package loop provides the cooperative event loop that owns every motion
// component.
//
// Components in this module are not safe for concurrent use. Hosts deliver
// raw input (intersection entries, scroll, resize, pointer and touch events)
// by posting callbacks into a Loop; the loop runs them on a single goroutine
// at fixed tick boundaries, in arrival order. The same goroutine fires timers
// scheduled through the loop's Clock implementation and invokes frame
// callbacks once per tick, so the loop doubles as the frame source for the
// performance sampler.
//
// # Example Usage
//
//	l := loop.New(loop.Config{TickRate: 16667 * time.Microsecond})
//	if err := l.Start(ctx); err != nil {
//		return err
//	}
//	defer l.Stop()
//	_ = l.Post(func() { tracker.Handle(metrics) })
//
// # Ordering
//
// Within a tick, work runs in three phases:
//  1. Posted callbacks, by sequence number (FIFO)
//  2. Due timers, by deadline and then by scheduling order
//  3. Frame callbacks, with the tick timestamp
//
// A stopped timer never runs, even when it was already due in the current
// tick.
package loop
