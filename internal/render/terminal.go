// Package render draws composed HUD instructions on a terminal. It is the
// preview backend of the hudstats command; overlays supply their own.
package render

import (
	"io"
	"math"
	"strings"

	"codeberg.org/mutker/hudstats/internal/hud"
	"codeberg.org/mutker/hudstats/internal/palette"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

const (
	DefaultWidth = 60
	graphHeight  = 4
	cellGap      = "  "
)

var blocks = []rune("▁▂▃▄▅▆▇█")

// Terminal renders instructions as lipgloss styled rows.
type Terminal struct {
	r     *lipgloss.Renderer
	width int
	frame lipgloss.Style
	label lipgloss.Style
}

// NewTerminal renders for the colour profile detected on w.
func NewTerminal(w io.Writer, width int) *Terminal {
	if width <= 0 {
		width = DefaultWidth
	}
	r := lipgloss.NewRenderer(w)
	return &Terminal{
		r:     r,
		width: width,
		frame: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		label: r.NewStyle().Bold(true),
	}
}

// Render lays the instructions out row by row inside a border.
func (t *Terminal) Render(instructions []hud.Instruction) string {
	var (
		rows []string
		cur  []string
	)

	flush := func() {
		if cur != nil {
			rows = append(rows, strings.Join(cur, cellGap))
			cur = nil
		}
	}

	for _, in := range instructions {
		if in.NewRow {
			flush()
		}

		switch {
		case in.Graph != nil:
			flush()
			rows = append(rows, t.graph(in))
		case in.Centered:
			flush()
			rows = append(rows, lipgloss.PlaceHorizontal(t.width, lipgloss.Center, t.value(in)))
		default:
			cur = append(cur, t.cell(in))
		}
	}
	flush()

	return t.frame.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (t *Terminal) cell(in hud.Instruction) string {
	value := t.value(in)
	if in.Label == "" {
		return value
	}
	label := t.label.Foreground(colorOf(in.LabelColor)).Render(in.Label)
	if value == "" {
		return label
	}
	return label + " " + value
}

func (t *Terminal) value(in hud.Instruction) string {
	s := in.Value.String()
	if s == "" {
		return ""
	}
	if in.Unit != "" {
		s += in.Unit
	}
	return t.r.NewStyle().Foreground(colorOf(in.Color)).Render(s)
}

func (t *Terminal) graph(in hud.Instruction) string {
	g := in.Graph
	if len(g.Values) == 0 {
		return ""
	}
	if g.Histogram {
		return t.r.NewStyle().Foreground(colorOf(in.Color)).Render(Sparkline(g.Values, g.Min, g.Max))
	}

	lo, hi := g.Min, g.Max
	if hi <= lo {
		hi = lo + 1
	}
	return asciigraph.Plot(g.Values,
		asciigraph.Height(graphHeight),
		asciigraph.LowerBound(lo),
		asciigraph.UpperBound(hi),
		asciigraph.Precision(0),
	)
}

// Sparkline maps each value onto a block character between lo and hi.
// Values outside the range are clamped.
func Sparkline(values []float64, lo, hi float64) string {
	var b strings.Builder
	span := hi - lo
	top := float64(len(blocks) - 1)

	for _, v := range values {
		frac := 0.0
		if span > 0 && !math.IsNaN(v) {
			frac = (v - lo) / span
		}
		frac = math.Max(0, math.Min(1, frac))
		b.WriteRune(blocks[int(frac*top+0.5)])
	}

	return b.String()
}

func colorOf(c palette.Color) lipgloss.TerminalColor {
	if c.A == 0 && c.R == 0 && c.G == 0 && c.B == 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color("#" + c.Hex())
}
