package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/comalice/motionx/config"
	"github.com/comalice/motionx/engine"
	"github.com/comalice/motionx/gate"
	"github.com/comalice/motionx/internal/logging"
	"github.com/comalice/motionx/primitive"
	"github.com/comalice/motionx/viewport"
)

// A scripted page: three cards below the fold, scrolled into view one
// viewport at a time, with reduced motion toggled halfway through.
func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	geo := viewport.NewGeometryObserver(viewport.Rect{Width: 1280, Height: 800})
	cards := []viewport.SurfaceID{"card-1", "card-2", "card-3"}
	for i, c := range cards {
		geo.SetBounds(c, viewport.Rect{Y: float64(900 + i*800), Width: 400, Height: 300})
	}

	instructions := make(chan primitive.Instruction, 100)
	sink := primitive.NewChannelSink(instructions, logger)
	pref := gate.NewPreference(false)

	e, err := engine.New(cfg, engine.Host{Accessibility: pref, Observer: geo, Sink: sink}, engine.WithLogger(logger))
	if err != nil {
		panic(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := e.Start(ctx); err != nil {
		panic(err)
	}
	defer e.Close()

	err = e.Do(ctx, func() {
		for _, c := range cards {
			if _, err := primitive.FadeIn(e.Env(), primitive.RevealOptions{
				Surface:  c,
				Viewport: viewport.Options{Threshold: 0.5, Mode: viewport.Once},
			}); err != nil {
				panic(err)
			}
		}
		if _, err := primitive.Pulse(e.Env(), primitive.LoopOptions{Surface: "badge"}); err != nil {
			panic(err)
		}
	})
	if err != nil {
		panic(err)
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	scroll := 0.0
	for {
		select {
		case in := <-instructions:
			mode := "animate"
			if in.Immediate {
				mode = "jump"
			}
			fmt.Printf("%-8s %-12s %-8s -> %-8s %s\n", in.Surface, in.Primitive, in.From, in.To, mode)
		case <-ticker.C:
			scroll += 800
			y := scroll
			if err := e.Do(ctx, func() { geo.ScrollTo(y) }); err != nil {
				fmt.Println("scroll:", err)
			}
			fmt.Printf("\n--- scrolled to %.0f ---\n", y)
			if scroll == 1600 {
				pref.Set(true)
				fmt.Println("reduced motion on")
			}
			if scroll > 3200 {
				return
			}
		case <-sig:
			fmt.Println("\nShutting down...")
			return
		}
	}
}
