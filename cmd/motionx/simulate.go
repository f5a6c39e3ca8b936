package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/comalice/motionx/clock"
	"github.com/comalice/motionx/gesture"
	"github.com/comalice/motionx/sequence"
	"github.com/comalice/motionx/tracker"
)

func (a *app) simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run timing components on a simulated clock",
	}
	cmd.AddCommand(a.simulateSequenceCmd(), a.simulateSwipeCmd(), a.simulateResizeCmd())
	return cmd
}

type simulation struct {
	clk   *clock.Manual
	start time.Time
	out   io.Writer
}

func newSimulation(out io.Writer) *simulation {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	return &simulation{clk: clock.NewManual(start), start: start, out: out}
}

func (s *simulation) logf(format string, args ...any) {
	fmt.Fprintf(s.out, "t=%-8s "+format+"\n", append([]any{s.clk.Now().Sub(s.start)}, args...)...)
}

func (a *app) simulateSequenceCmd() *cobra.Command {
	var steps int
	var step time.Duration
	var resetAt time.Duration

	cmd := &cobra.Command{
		Use:   "sequence",
		Short: "Play a step sequence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sim := newSimulation(cmd.OutOrStdout())
			seq := sequence.New(sim.clk, sequence.WithLogger(a.logger))
			seq.OnChange(func(st sequence.State) {
				sim.logf("step=%d playing=%t", st.CurrentStep, st.IsPlaying)
			})
			if _, err := seq.Play(steps, step); err != nil {
				return err
			}
			total := time.Duration(steps) * step
			if resetAt > 0 && resetAt < total {
				sim.clk.Advance(resetAt)
				seq.Reset()
				sim.logf("reset")
				sim.clk.Advance(total - resetAt)
				return nil
			}
			sim.clk.Advance(total)
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 4, "number of steps")
	cmd.Flags().DurationVar(&step, "step", 250*time.Millisecond, "time per step")
	cmd.Flags().DurationVar(&resetAt, "reset-at", 0, "reset the sequence after this long")
	return cmd
}

func (a *app) simulateSwipeCmd() *cobra.Command {
	var dx, dy float64

	cmd := &cobra.Command{
		Use:   "swipe",
		Short: "Classify a start, move, end gesture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sim := newSimulation(cmd.OutOrStdout())
			s := gesture.NewSwipe(sim.clk, a.cfg.SwipeClearDelay)
			s.Subscribe(func(st gesture.State) {
				sim.logf("direction=%s swiping=%t", st.Direction, st.IsSwiping)
			})
			s.Start(0, 0)
			s.Move(dx, dy)
			s.End()
			sim.clk.Advance(a.cfg.SwipeClearDelay)
			return nil
		},
	}
	cmd.Flags().Float64Var(&dx, "dx", 100, "horizontal displacement")
	cmd.Flags().Float64Var(&dy, "dy", 0, "vertical displacement")
	return cmd
}

// scriptedResize is a ResizeSource fed by the simulation.
type scriptedResize struct {
	w, h float64
	fn   func(w, h float64)
}

func (r *scriptedResize) Size() (float64, float64) { return r.w, r.h }

func (r *scriptedResize) OnResize(fn func(w, h float64)) func() {
	r.fn = fn
	return func() { r.fn = nil }
}

func (a *app) simulateResizeCmd() *cobra.Command {
	var events int
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "resize",
		Short: "Feed a burst of resize events through the debouncer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sim := newSimulation(cmd.OutOrStdout())
			src := &scriptedResize{w: 1280, h: 800}
			r, err := tracker.NewResize(src, sim.clk, a.cfg.ResizeQuiet)
			if err != nil {
				return err
			}
			defer r.Close()
			r.OnChange(func(st tracker.ResizeState) {
				sim.logf("size=%gx%g resizing=%t", st.Width, st.Height, st.IsResizing)
			})
			for i := range events {
				if i > 0 {
					sim.clk.Advance(interval)
				}
				src.fn(1280-float64(i*10), 800)
			}
			sim.clk.Advance(a.cfg.ResizeQuiet)
			return nil
		},
	}
	cmd.Flags().IntVar(&events, "events", 5, "number of resize events")
	cmd.Flags().DurationVar(&interval, "interval", 50*time.Millisecond, "time between events")
	return cmd
}
