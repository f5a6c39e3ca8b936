package viewport

import "math"

// Rect is an axis-aligned rectangle in page coordinates.
type Rect struct {
	X, Y, Width, Height float64
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }
func (r Rect) Area() float64   { return math.Max(r.Width, 0) * math.Max(r.Height, 0) }

// Expand grows r by m on every side; negative m shrinks it.
func (r Rect) Expand(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, Width: r.Width + 2*m, Height: r.Height + 2*m}
}

// Intersect returns the overlap of r and o and whether they overlap at all.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	x0 := math.Max(r.X, o.X)
	y0 := math.Max(r.Y, o.Y)
	x1 := math.Min(r.Right(), o.Right())
	y1 := math.Min(r.Bottom(), o.Bottom())
	if x1 < x0 || y1 < y0 {
		return Rect{}, false
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, true
}
