package preset

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// Durations shared by the built-in presets.
const (
	Fast   = 200 * time.Millisecond
	Normal = 300 * time.Millisecond
	Slow   = 500 * time.Millisecond
)

// Cubic-bezier control points (x1, y1, x2, y2).
var (
	Linear    = []float64{0, 0, 1, 1}
	EaseIn    = []float64{0.4, 0, 1, 1}
	EaseOut   = []float64{0, 0, 0.2, 1}
	EaseInOut = []float64{0.4, 0, 0.2, 1}
)

// Named spring parameters.
var (
	SpringGentle = Spring{Stiffness: 120, Damping: 20, Mass: 1}
	SpringSnappy = Spring{Stiffness: 300, Damping: 30, Mass: 1}
	SpringBouncy = Spring{Stiffness: 400, Damping: 10, Mass: 1}
)

// CurveKind tells which representation a transition uses.
type CurveKind int

const (
	CurveBezier CurveKind = iota
	CurveSpring
)

func (k CurveKind) String() string {
	switch k {
	case CurveBezier:
		return "bezier"
	case CurveSpring:
		return "spring"
	default:
		return "unknown"
	}
}

// Curve is either a Bezier or a Spring.
type Curve interface {
	Kind() CurveKind
}

// Bezier is a cubic-bezier timing curve.
type Bezier [4]float64

func (Bezier) Kind() CurveKind { return CurveBezier }

// Spring describes a damped harmonic oscillator.
type Spring struct {
	Stiffness float64 `json:"stiffness" yaml:"stiffness"`
	Damping   float64 `json:"damping" yaml:"damping"`
	Mass      float64 `json:"mass,omitempty" yaml:"mass,omitempty"`
}

func (Spring) Kind() CurveKind { return CurveSpring }

func (s Spring) mass() float64 {
	if s.Mass == 0 {
		return 1
	}
	return s.Mass
}

func (s Spring) validate() error {
	if s.Stiffness <= 0 {
		return fmt.Errorf("spring stiffness must be positive, got %v", s.Stiffness)
	}
	if s.Damping < 0 {
		return fmt.Errorf("spring damping must not be negative, got %v", s.Damping)
	}
	if s.Mass < 0 {
		return fmt.Errorf("spring mass must not be negative, got %v", s.Mass)
	}
	return nil
}

const (
	settleFPS       = 120
	settleRestDelta = 0.001
	// MaxSettle caps the estimate for springs that never come to rest.
	MaxSettle = 10 * time.Second
)

// Settle estimates how long the spring takes to travel from 0 to 1 and come
// to rest, by stepping it frame by frame.
func (s Spring) Settle() time.Duration {
	m := s.mass()
	omega := math.Sqrt(s.Stiffness / m)
	zeta := s.Damping / (2 * math.Sqrt(s.Stiffness*m))
	sp := harmonica.NewSpring(harmonica.FPS(settleFPS), omega, zeta)

	pos, vel := 0.0, 0.0
	maxFrames := int(MaxSettle.Seconds() * settleFPS)
	for frame := 1; frame <= maxFrames; frame++ {
		pos, vel = sp.Update(pos, vel, 1)
		if math.Abs(1-pos) < settleRestDelta && math.Abs(vel) < settleRestDelta {
			return time.Duration(frame) * time.Second / settleFPS
		}
	}
	return MaxSettle
}
