// Package display is the render boundary: it consumes formatted rows
// and draws them. The core never depends on how rows are drawn.
package display

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"tickerboard/internal/render"
)

// Row is one display line: a fixed label, the formatted text and its
// color classification.
type Row struct {
	Label string
	Text  string
	State render.State
}

// Display draws a full set of rows, replacing whatever was shown
// before.
type Display interface {
	Render(rows []Row) error
}

// Console writes color-coded rows to a terminal using ANSI escapes,
// redrawing over the previous frame.
type Console struct {
	mu    sync.Mutex
	out   io.Writer
	drawn int // lines drawn by the previous frame
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func colorFor(s render.State) string {
	switch s {
	case render.StateUp:
		return "\x1b[32m" // green
	case render.StateDown:
		return "\x1b[31m" // red
	case render.StateClosed:
		return "\x1b[90m" // grey
	default:
		return "\x1b[37m" // white
	}
}

func (c *Console) Render(rows []Row) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder
	if c.drawn > 0 {
		fmt.Fprintf(&b, "\x1b[%dA", c.drawn)
	}
	for _, r := range rows {
		// label left, value right-aligned in a fixed-width field
		fmt.Fprintf(&b, "\x1b[2K%-4s %s%12s\x1b[0m\n", r.Label, colorFor(r.State), r.Text)
	}
	c.drawn = len(rows)
	_, err := io.WriteString(c.out, b.String())
	return err
}
