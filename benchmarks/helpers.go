// Package benchmarks measures the hot paths of the motion runtime: variant
// machine steps, gate fan-out, loop throughput and preset decoding.
package benchmarks

import (
	"bytes"
	"fmt"
	"time"

	"github.com/comalice/motionx"
	"github.com/comalice/motionx/preset"
)

// GenRevealPresets returns n valid reveal descriptors with distinct names.
func GenRevealPresets(n int) []preset.Descriptor {
	if n < 1 {
		n = 1
	}
	out := make([]preset.Descriptor, n)
	for i := range out {
		offset := float64(10 + i%50)
		out[i] = preset.Descriptor{
			Name: fmt.Sprintf("reveal-%d", i),
			States: map[motionx.StateName]preset.Target{
				motionx.StateHidden:  {Props: map[string]float64{"opacity": 0, "y": offset}},
				motionx.StateVisible: {Props: map[string]float64{"opacity": 1, "y": 0}},
				motionx.StateExit:    {Props: map[string]float64{"opacity": 0, "y": -offset}},
			},
			Transition: preset.Transition{
				Duration: time.Duration(200+i%300) * time.Millisecond,
				Ease:     preset.EaseOut,
			},
		}
	}
	return out
}

// GenPresetDocument encodes GenRevealPresets(n) as a preset file.
func GenPresetDocument(n int) ([]byte, error) {
	var buf bytes.Buffer
	if err := preset.Encode(&buf, GenRevealPresets(n)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
