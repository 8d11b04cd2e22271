package render_test

import (
	"bytes"
	"strings"
	"testing"

	"codeberg.org/mutker/hudstats/internal/hud"
	"codeberg.org/mutker/hudstats/internal/palette"
	"codeberg.org/mutker/hudstats/internal/render"
	"github.com/stretchr/testify/assert"
)

func TestSparkline(t *testing.T) {
	assert.Equal(t, "▁▅█", render.Sparkline([]float64{0, 50, 100}, 0, 100))
	assert.Equal(t, "▁█", render.Sparkline([]float64{-10, 500}, 0, 100))
	assert.Equal(t, "▁▁", render.Sparkline([]float64{3, 3}, 3, 3))
	assert.Empty(t, render.Sparkline(nil, 0, 1))
}

func TestRenderRows(t *testing.T) {
	term := render.NewTerminal(&bytes.Buffer{}, 40)
	white := palette.MustParseHex("FFFFFF")

	out := term.Render([]hud.Instruction{
		{NewRow: true, Label: "CPU", LabelColor: white, Value: hud.Number(42, ""), Unit: "%", Color: white},
		{Value: hud.Number(65, ""), Unit: "°C", Color: white},
		{NewRow: true, Label: "GPU", Value: hud.Number(87, ""), Unit: "%"},
		{NewRow: true, Value: hud.Text("hello"), Centered: true},
		{NewRow: true, Graph: &hud.Graph{Values: []float64{0, 50, 100}, Min: 0, Max: 100, Histogram: true}},
	})

	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[1], "CPU 42%  65°C")
	assert.Contains(t, lines[2], "GPU 87%")
	assert.Contains(t, lines[3], "hello")
	assert.Contains(t, lines[4], "▁▅█")
}

func TestRenderLineGraph(t *testing.T) {
	term := render.NewTerminal(&bytes.Buffer{}, 0)

	out := term.Render([]hud.Instruction{
		{NewRow: true, Graph: &hud.Graph{Values: []float64{1, 2, 3, 2, 1}, Min: 0, Max: 10}},
	})

	assert.Contains(t, out, "10")
	assert.Greater(t, strings.Count(out, "\n"), 3)
}

func TestRenderEmptyGraph(t *testing.T) {
	term := render.NewTerminal(&bytes.Buffer{}, 0)

	assert.NotPanics(t, func() {
		term.Render([]hud.Instruction{{NewRow: true, Graph: &hud.Graph{}}})
	})
}
