package viewport

import "sort"

// GeometryObserver is an Observer computed from rectangles supplied by the
// host: the viewport rectangle and the bounds of each surface. It reports an
// entry when a surface's intersecting flag changes, and once right after
// Observe when the surface's bounds are known.
type GeometryObserver struct {
	viewport Rect
	bounds   map[SurfaceID]Rect
	targets  map[uint64]*geometryTarget
	nextID   uint64
}

type geometryTarget struct {
	id       uint64
	owner    *GeometryObserver
	surface  SurfaceID
	opts     Options
	fn       func(Entry)
	reported bool
	last     bool
}

// NewGeometryObserver returns an observer for the given viewport.
func NewGeometryObserver(vp Rect) *GeometryObserver {
	return &GeometryObserver{
		viewport: vp,
		bounds:   make(map[SurfaceID]Rect),
		targets:  make(map[uint64]*geometryTarget),
	}
}

// Observe implements Observer.
func (g *GeometryObserver) Observe(surface SurfaceID, opts Options, fn func(Entry)) (Observation, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	t := &geometryTarget{id: g.nextID, owner: g, surface: surface, opts: opts, fn: fn}
	g.nextID++
	g.targets[t.id] = t
	if _, ok := g.bounds[surface]; ok {
		g.evaluate(t)
	}
	return t, nil
}

// SetViewport moves or resizes the viewing area, e.g. on scroll.
func (g *GeometryObserver) SetViewport(vp Rect) {
	g.viewport = vp
	for _, t := range g.sortedTargets() {
		g.evaluate(t)
	}
}

// ScrollTo moves the viewport's top edge to y.
func (g *GeometryObserver) ScrollTo(y float64) {
	vp := g.viewport
	vp.Y = y
	g.SetViewport(vp)
}

// SetBounds records a surface's rectangle.
func (g *GeometryObserver) SetBounds(surface SurfaceID, r Rect) {
	g.bounds[surface] = r
	for _, t := range g.sortedTargets() {
		if t.surface == surface {
			g.evaluate(t)
		}
	}
}

// Observing returns the number of live observations.
func (g *GeometryObserver) Observing() int { return len(g.targets) }

func (g *GeometryObserver) sortedTargets() []*geometryTarget {
	out := make([]*geometryTarget, 0, len(g.targets))
	for _, t := range g.targets {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Ratio returns the visible fraction of bounds inside vp grown by margin.
func Ratio(bounds, vp Rect, margin float64) float64 {
	area := bounds.Area()
	inter, ok := bounds.Intersect(vp.Expand(margin))
	if !ok {
		return 0
	}
	if area == 0 {
		// A degenerate surface is fully visible when it touches the area.
		return 1
	}
	return inter.Area() / area
}

func (g *GeometryObserver) evaluate(t *geometryTarget) {
	if _, live := g.targets[t.id]; !live {
		return
	}
	b, ok := g.bounds[t.surface]
	if !ok {
		return
	}
	ratio := Ratio(b, g.viewport, t.opts.Margin)
	intersecting := ratio > 0
	if t.opts.Threshold > 0 {
		intersecting = ratio >= t.opts.Threshold
	}
	if t.reported && intersecting == t.last {
		return
	}
	t.reported = true
	t.last = intersecting
	t.fn(Entry{Surface: t.surface, IsIntersecting: intersecting, Ratio: ratio})
}

func (t *geometryTarget) Disconnect() {
	delete(t.owner.targets, t.id)
}
