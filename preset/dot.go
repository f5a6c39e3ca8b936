package preset

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/comalice/motionx"
)

// ExportDOT renders chart bound to desc as Graphviz DOT source. States the
// descriptor does not define are drawn dashed red; current is highlighted.
func ExportDOT(chart motionx.Chart, desc Descriptor, current motionx.StateName) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", chart.Name+"/"+desc.Name)
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, fontsize=10, style=rounded];\n")
	buf.WriteString("  edge [fontsize=9];\n")
	fmt.Fprintf(&buf, "  __start [shape=point];\n  __start -> %q;\n", string(chart.Initial))

	for _, s := range chart.States() {
		label := string(s)
		style := ""
		if target, ok := desc.States[s]; ok {
			if summary := summarize(target); summary != "" {
				label += "\n" + summary
			}
			if s == current {
				style = ` style="rounded,filled" fillcolor=lightgreen`
			}
		} else {
			style = ` style=dashed color=red`
		}
		fmt.Fprintf(&buf, "  %q [label=%q%s];\n", string(s), label, style)
	}

	for _, t := range chart.Transitions {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", string(t.From), string(t.To), string(t.Event))
	}
	buf.WriteString("}\n")
	return buf.String()
}

// summarize lists a target's props and keyframes as "k=v" pairs.
func summarize(t Target) string {
	var parts []string
	for k, v := range t.Props {
		parts = append(parts, fmt.Sprintf("%s=%g", k, v))
	}
	for k, frames := range t.Keyframes {
		vals := make([]string, len(frames))
		for i, f := range frames {
			vals[i] = fmt.Sprintf("%g", f)
		}
		parts = append(parts, fmt.Sprintf("%s=[%s]", k, strings.Join(vals, " ")))
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
