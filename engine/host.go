package engine

import (
	"github.com/comalice/motionx/gate"
	"github.com/comalice/motionx/gesture"
	"github.com/comalice/motionx/primitive"
	"github.com/comalice/motionx/tracker"
	"github.com/comalice/motionx/viewport"
)

// Host lists the capabilities the embedding environment provides. Any
// field may be nil; the components that need a missing capability report
// ErrUnsupported or degrade to static rendering.
//
// Host callbacks may arrive on any goroutine. The engine re-posts them onto
// its loop so every component sees them on one goroutine.
type Host struct {
	Accessibility gate.AccessibilitySource
	Observer      viewport.Observer
	Scroll        tracker.ScrollSource
	Resize        tracker.ResizeSource
	Pointer       tracker.PointerSource
	Touch         gesture.TouchSource
	Sink          primitive.Sink
}

type poster func(func())

type postedAccessibility struct {
	src  gate.AccessibilitySource
	post poster
}

func (p postedAccessibility) PrefersReducedMotion() bool { return p.src.PrefersReducedMotion() }

func (p postedAccessibility) OnChange(fn func(bool)) func() {
	return p.src.OnChange(func(v bool) { p.post(func() { fn(v) }) })
}

type postedObserver struct {
	src  viewport.Observer
	post poster
}

func (p postedObserver) Observe(surface viewport.SurfaceID, opts viewport.Options, fn func(viewport.Entry)) (viewport.Observation, error) {
	return p.src.Observe(surface, opts, func(e viewport.Entry) { p.post(func() { fn(e) }) })
}

type postedScroll struct {
	src  tracker.ScrollSource
	post poster
}

func (p postedScroll) Scroll() tracker.ScrollMetrics { return p.src.Scroll() }

func (p postedScroll) OnScroll(fn func(tracker.ScrollMetrics)) func() {
	return p.src.OnScroll(func(m tracker.ScrollMetrics) { p.post(func() { fn(m) }) })
}

type postedResize struct {
	src  tracker.ResizeSource
	post poster
}

func (p postedResize) Size() (float64, float64) { return p.src.Size() }

func (p postedResize) OnResize(fn func(w, h float64)) func() {
	return p.src.OnResize(func(w, h float64) { p.post(func() { fn(w, h) }) })
}

type postedPointer struct {
	src  tracker.PointerSource
	post poster
}

func (p postedPointer) OnPointerMove(fn func(x, y float64)) func() {
	return p.src.OnPointerMove(func(x, y float64) { p.post(func() { fn(x, y) }) })
}

type postedTouch struct {
	src  gesture.TouchSource
	post poster
}

func (p postedTouch) OnTouchStart(fn func(x, y float64)) func() {
	return p.src.OnTouchStart(func(x, y float64) { p.post(func() { fn(x, y) }) })
}

func (p postedTouch) OnTouchMove(fn func(x, y float64)) func() {
	return p.src.OnTouchMove(func(x, y float64) { p.post(func() { fn(x, y) }) })
}

func (p postedTouch) OnTouchEnd(fn func()) func() {
	return p.src.OnTouchEnd(func() { p.post(fn) })
}
