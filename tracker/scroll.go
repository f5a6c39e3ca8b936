package tracker

import (
	"github.com/comalice/motionx/viewport"
)

// ScrollMetrics is one sample of the page's scroll geometry.
type ScrollMetrics struct {
	ScrollY        float64
	DocumentHeight float64
	ViewportHeight float64
}

// ScrollSource is the host's scroll event stream.
type ScrollSource interface {
	Scroll() ScrollMetrics
	OnScroll(fn func(ScrollMetrics)) (unsubscribe func())
}

// PageProgress is clamp(scrollY / (documentHeight - viewportHeight), 0, 1).
// A page that cannot scroll reports 0.
func PageProgress(m ScrollMetrics) float64 {
	scrollable := m.DocumentHeight - m.ViewportHeight
	if scrollable <= 0 {
		return 0
	}
	return clamp01(m.ScrollY / scrollable)
}

// VisibleFraction is the share of the element's height inside the viewport,
// clamped to [0,1]. Bounds are in page coordinates.
func VisibleFraction(bounds viewport.Rect, m ScrollMetrics) float64 {
	if bounds.Height <= 0 {
		return 0
	}
	top := bounds.Y - m.ScrollY
	bottom := top + bounds.Height
	visible := min(bottom, m.ViewportHeight) - max(top, 0)
	return clamp01(visible / bounds.Height)
}

// ScrollProgress tracks PageProgress.
type ScrollProgress struct {
	progress    float64
	subs        listeners[float64]
	unsubscribe func()
	closed      bool
}

// NewScrollProgress subscribes to src.
func NewScrollProgress(src ScrollSource) (*ScrollProgress, error) {
	if src == nil {
		return nil, ErrUnsupported
	}
	p := &ScrollProgress{progress: PageProgress(src.Scroll())}
	p.unsubscribe = src.OnScroll(p.handle)
	return p, nil
}

func (p *ScrollProgress) handle(m ScrollMetrics) {
	if p.closed {
		return
	}
	v := PageProgress(m)
	if v == p.progress {
		return
	}
	p.progress = v
	p.subs.emit(v)
}

// Progress returns the last computed value.
func (p *ScrollProgress) Progress() float64 { return p.progress }

// OnChange registers fn for progress changes.
func (p *ScrollProgress) OnChange(fn func(float64)) (unsubscribe func()) { return p.subs.add(fn) }

// Close releases the scroll subscription. Safe to call more than once.
func (p *ScrollProgress) Close() {
	p.closed = true
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
	p.subs.clear()
}

// ElementProgress tracks VisibleFraction for one element, recomputed on
// every scroll tick while mounted.
type ElementProgress struct {
	bounds      func() viewport.Rect
	progress    float64
	subs        listeners[float64]
	unsubscribe func()
	closed      bool
}

// NewElementProgress subscribes to src; bounds is read on every tick so
// layout changes are picked up.
func NewElementProgress(src ScrollSource, bounds func() viewport.Rect) (*ElementProgress, error) {
	if src == nil || bounds == nil {
		return nil, ErrUnsupported
	}
	p := &ElementProgress{bounds: bounds}
	p.progress = VisibleFraction(bounds(), src.Scroll())
	p.unsubscribe = src.OnScroll(p.handle)
	return p, nil
}

func (p *ElementProgress) handle(m ScrollMetrics) {
	if p.closed {
		return
	}
	v := VisibleFraction(p.bounds(), m)
	if v == p.progress {
		return
	}
	p.progress = v
	p.subs.emit(v)
}

// Progress returns the last computed value.
func (p *ElementProgress) Progress() float64 { return p.progress }

// OnChange registers fn for progress changes.
func (p *ElementProgress) OnChange(fn func(float64)) (unsubscribe func()) { return p.subs.add(fn) }

// Close releases the scroll subscription. Safe to call more than once.
func (p *ElementProgress) Close() {
	p.closed = true
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
	p.subs.clear()
}
