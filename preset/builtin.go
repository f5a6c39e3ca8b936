package preset

import (
	"time"

	"github.com/comalice/motionx"
)

// Built-in preset names.
const (
	FadeIn           = "fade-in"
	FadeInUp         = "fade-in-up"
	FadeInDown       = "fade-in-down"
	ScaleIn          = "scale-in"
	SlideInLeft      = "slide-in-left"
	SlideInRight     = "slide-in-right"
	SlideInUp        = "slide-in-up"
	SlideInDown      = "slide-in-down"
	StaggerContainer = "stagger-container"
	StaggerItem      = "stagger-item"
	Floating         = "floating"
	Pulse            = "pulse"
	Shake            = "shake"
	PageFade         = "page-fade"
	PageSlide        = "page-slide"
	PageScale        = "page-scale"
	HoverLift        = "hover-lift"
	ButtonTap        = "button-tap"
)

func props(kv ...any) Target {
	t := Target{Props: make(map[string]float64, len(kv)/2)}
	for i := 0; i+1 < len(kv); i += 2 {
		t.Props[kv[i].(string)] = toFloat(kv[i+1])
	}
	return t
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

func reveal(name string, hidden, visible, exit Target, tr Transition) Descriptor {
	return Descriptor{
		Name: name,
		States: map[motionx.StateName]Target{
			motionx.StateHidden:  hidden,
			motionx.StateVisible: visible,
			motionx.StateExit:    exit,
		},
		Transition: tr,
	}
}

func page(name string, initial, animate, exit Target) Descriptor {
	return Descriptor{
		Name: name,
		States: map[motionx.StateName]Target{
			motionx.StateInitial: initial,
			motionx.StateAnimate: animate,
			motionx.StateExit:    exit,
		},
		Transition: Transition{Duration: Normal, Ease: EaseInOut},
	}
}

func slide(name, axis string, offset float64) Descriptor {
	return reveal(name,
		props(axis, offset, "opacity", 0),
		props(axis, 0, "opacity", 1),
		props(axis, offset, "opacity", 0),
		Transition{Duration: Slow, Ease: EaseOut},
	)
}

// ChartFor returns the chart the primitive owning a built-in name drives.
// Custom names report false.
func ChartFor(name string) (motionx.Chart, bool) {
	switch name {
	case FadeIn, FadeInUp, FadeInDown, ScaleIn,
		SlideInLeft, SlideInRight, SlideInUp, SlideInDown,
		StaggerContainer, StaggerItem:
		return motionx.RevealChart(), true
	case Floating, Pulse:
		return motionx.LoopChart(), true
	case Shake:
		return motionx.BurstChart(), true
	case PageFade, PageSlide, PageScale:
		return motionx.PresenceChart(), true
	case HoverLift, ButtonTap:
		return motionx.InteractiveChart(), true
	}
	return motionx.Chart{}, false
}

// Builtins returns the presets shipped with the engine. Every reveal preset
// defines hidden, visible and exit; looping presets define rest and animate.
func Builtins() []Descriptor {
	easeOut := Transition{Duration: Normal, Ease: EaseOut}
	snappy := SpringSnappy

	staggerVisible := props("opacity", 1)
	staggerVisible.Transition = &Transition{
		Duration:        Normal,
		Ease:            EaseOut,
		StaggerChildren: 100 * time.Millisecond,
	}

	floating := Target{Keyframes: map[string][]float64{"y": {0, -10, 0}}}
	floating.Transition = &Transition{Duration: 3 * time.Second, Ease: EaseInOut, Repeat: RepeatForever}

	pulse := Target{Keyframes: map[string][]float64{"scale": {1, 1.05, 1}}}
	pulse.Transition = &Transition{Duration: 2 * time.Second, Ease: EaseInOut, Repeat: RepeatForever}

	shake := Target{Keyframes: map[string][]float64{"x": {0, -10, 10, -10, 10, 0}}}
	shake.Transition = &Transition{Duration: Slow, Ease: EaseInOut}

	return []Descriptor{
		reveal(FadeIn, props("opacity", 0), props("opacity", 1), props("opacity", 0), easeOut),
		reveal(FadeInUp,
			props("opacity", 0, "y", 20), props("opacity", 1, "y", 0), props("opacity", 0, "y", -20), easeOut),
		reveal(FadeInDown,
			props("opacity", 0, "y", -20), props("opacity", 1, "y", 0), props("opacity", 0, "y", 20), easeOut),
		reveal(ScaleIn,
			props("opacity", 0, "scale", 0.8), props("opacity", 1, "scale", 1), props("opacity", 0, "scale", 0.8),
			Transition{Spring: &snappy}),
		slide(SlideInLeft, "x", -100),
		slide(SlideInRight, "x", 100),
		slide(SlideInUp, "y", 100),
		slide(SlideInDown, "y", -100),
		reveal(StaggerContainer, props("opacity", 0), staggerVisible, props("opacity", 0), easeOut),
		reveal(StaggerItem,
			props("opacity", 0, "y", 20), props("opacity", 1, "y", 0), props("opacity", 0, "y", 20), easeOut),
		{
			Name: Floating,
			States: map[motionx.StateName]Target{
				motionx.StateRest:    props("y", 0),
				motionx.StateAnimate: floating,
			},
		},
		{
			Name: Pulse,
			States: map[motionx.StateName]Target{
				motionx.StateRest:    props("scale", 1),
				motionx.StateAnimate: pulse,
			},
		},
		{
			Name: Shake,
			States: map[motionx.StateName]Target{
				motionx.StateRest:  props("x", 0),
				motionx.StateShake: shake,
			},
		},
		page(PageFade, props("opacity", 0), props("opacity", 1), props("opacity", 0)),
		page(PageSlide, props("opacity", 0, "x", 20), props("opacity", 1, "x", 0), props("opacity", 0, "x", -20)),
		page(PageScale, props("opacity", 0, "scale", 0.95), props("opacity", 1, "scale", 1), props("opacity", 0, "scale", 1.05)),
		{
			Name: HoverLift,
			States: map[motionx.StateName]Target{
				motionx.StateRest:  props("scale", 1, "y", 0),
				motionx.StateHover: props("scale", 1.02, "y", -4),
				motionx.StateTap:   props("scale", 0.98, "y", 0),
			},
			Transition: Transition{Spring: &snappy},
		},
		{
			Name: ButtonTap,
			States: map[motionx.StateName]Target{
				motionx.StateRest:  props("scale", 1),
				motionx.StateHover: props("scale", 1.05),
				motionx.StateTap:   props("scale", 0.95),
			},
			Transition: Transition{Duration: Fast, Ease: EaseOut},
		},
	}
}
