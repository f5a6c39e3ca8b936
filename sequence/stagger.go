// Package sequence schedules ordered reveals: a pure stagger function for
// children of a container, and a step sequencer with cancellable tasks.
package sequence

import "time"

// Stagger offsets the entrance of successive children.
type Stagger struct {
	// Start is the delay before the first child.
	Start time.Duration
	// Each is added per child index.
	Each time.Duration
}

// Delay returns Start + i*Each. Negative indexes are treated as 0.
func (s Stagger) Delay(i int) time.Duration {
	if i < 0 {
		i = 0
	}
	return s.Start + time.Duration(i)*s.Each
}

// Delays returns the delays for children 0..n-1.
func (s Stagger) Delays(n int) []time.Duration {
	if n <= 0 {
		return nil
	}
	out := make([]time.Duration, n)
	for i := range out {
		out[i] = s.Delay(i)
	}
	return out
}

// Total is the delay of the last of n children.
func (s Stagger) Total(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return s.Delay(n - 1)
}
