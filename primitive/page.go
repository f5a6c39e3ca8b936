package primitive

import (
	"fmt"

	"github.com/comalice/motionx"
	"github.com/comalice/motionx/viewport"
)

// PageVariant selects a page transition preset.
type PageVariant string

const (
	PageFade  PageVariant = "fade"
	PageSlide PageVariant = "slide"
	PageScale PageVariant = "scale"
)

// PageOptions configure PageTransition.
type PageOptions struct {
	Surface viewport.SurfaceID
	// Variant defaults to PageFade.
	Variant PageVariant
	// Preset overrides the variant's descriptor.
	Preset string
}

// Page animates wrapped content in on mount and out on unmount.
type Page struct {
	*base
}

// PageTransition mounts content: initial to animate when motion is
// allowed, straight to animate otherwise.
func PageTransition(env Env, opts PageOptions) (*Page, error) {
	if opts.Variant == "" {
		opts.Variant = PageFade
	}
	name := opts.Preset
	if name == "" {
		switch opts.Variant {
		case PageFade, PageSlide, PageScale:
			name = "page-" + string(opts.Variant)
		default:
			return nil, fmt.Errorf("%s %s: unknown variant %q", KindPage, opts.Surface, opts.Variant)
		}
	}
	b, err := newBase(env, KindPage, opts.Surface, name, motionx.PresenceChart())
	if err != nil {
		return nil, err
	}
	p := &Page{base: b}
	if !p.watchGate(p.onGate) {
		p.settle(motionx.StateAnimate)
		return p, nil
	}
	p.place()
	p.send(motionx.EventShow, 0)
	return p, nil
}

// Unmount plays the exit transition and calls onExitComplete once it has
// finished, immediately when motion is disabled. Later calls are ignored.
func (p *Page) Unmount(onExitComplete func()) {
	p.exit(onExitComplete)
}

func (p *Page) onGate(on bool) {
	if p.closed || on {
		return
	}
	if p.exiting {
		p.finishExit()
		return
	}
	if p.Current() != motionx.StateAnimate {
		p.settle(motionx.StateAnimate)
	}
}

// Close stops following the gate and abandons a pending exit callback.
// Safe to call more than once.
func (p *Page) Close() { p.release() }
