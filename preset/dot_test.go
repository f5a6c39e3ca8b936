package preset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/comalice/motionx"
)

func TestExportDOT(t *testing.T) {
	d := Default().MustGet(FadeIn)
	out := ExportDOT(motionx.RevealChart(), d, motionx.StateVisible)

	assert.True(t, strings.HasPrefix(out, `digraph "reveal/fade-in" {`))
	assert.Contains(t, out, `"hidden" -> "visible" [label="show"];`)
	assert.Contains(t, out, `"visible" -> "exit" [label="exit"];`)
	assert.Contains(t, out, "fillcolor=lightgreen")
	assert.NotContains(t, out, "color=red")
}

func TestExportDOTMarksUndefinedStates(t *testing.T) {
	d := Default().MustGet(Floating)
	out := ExportDOT(motionx.RevealChart(), d, "")
	assert.Contains(t, out, `"hidden" [label="hidden" style=dashed color=red];`)
}
