package demo

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// tracer writes the human-readable delivery trace.
type tracer struct {
	out   io.Writer
	title *color.Color
	label *color.Color
	value *color.Color
}

func newTracer(out io.Writer, enabled bool) *tracer {
	t := &tracer{
		out:   out,
		title: color.New(color.FgCyan, color.Bold),
		label: color.New(color.FgGreen),
		value: color.New(color.FgYellow),
	}
	if !enabled {
		for _, c := range []*color.Color{t.title, t.label, t.value} {
			c.DisableColor()
		}
	}
	return t
}

func (t *tracer) section(name string) {
	_, _ = t.title.Fprintf(t.out, "== %s ==\n", name)
}

func (t *tracer) line(label string, v any) {
	fmt.Fprintf(t.out, "%s: %s\n", t.label.Sprint(label), t.value.Sprint(v))
}
