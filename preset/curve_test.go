package preset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSpringSettle(t *testing.T) {
	snappy := SpringSnappy.Settle()
	bouncy := SpringBouncy.Settle()

	assert.Greater(t, snappy, 100*time.Millisecond)
	assert.Less(t, snappy, 2*time.Second)
	assert.Greater(t, bouncy, snappy, "a less damped spring takes longer to settle")
}

func TestUndampedSpringIsCapped(t *testing.T) {
	s := Spring{Stiffness: 100, Damping: 0}
	assert.Equal(t, MaxSettle, s.Settle())
}

func TestEffectiveDuration(t *testing.T) {
	tests := []struct {
		name string
		tr   Transition
		want time.Duration
	}{
		{"plain", Transition{Duration: Normal}, Normal},
		{"delay", Transition{Duration: Normal, Delay: Fast}, Normal + Fast},
		{"repeat", Transition{Duration: Fast, Repeat: 2}, 3 * Fast},
		{"infinite", Transition{Duration: Fast, Repeat: RepeatForever}, 0},
		{"spring", Transition{Spring: &SpringSnappy}, SpringSnappy.Settle()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tr.EffectiveDuration())
		})
	}
}

func TestCurveKinds(t *testing.T) {
	assert.Nil(t, Transition{}.Curve())
	assert.Equal(t, CurveBezier, Transition{Ease: EaseInOut}.Curve().Kind())
	assert.Equal(t, CurveSpring, Transition{Spring: &SpringGentle}.Curve().Kind())
	assert.Equal(t, "spring", CurveSpring.String())
}
