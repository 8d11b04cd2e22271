// Package hud turns an ordered element configuration into a plan and, once per
// frame, walks that plan to produce widget instructions for a renderer.
package hud

import (
	"fmt"

	"codeberg.org/mutker/hudstats/internal/palette"
)

// Instruction is one cell emitted by a widget. A renderer starts a new row
// when NewRow is set and otherwise continues the current one.
type Instruction struct {
	Element    string
	NewRow     bool
	Label      string
	LabelColor palette.Color
	Value      Value
	Unit       string
	Color      palette.Color
	Centered   bool
	Graph      *Graph
}

// Value is either a number with a printf verb or a literal string.
type Value struct {
	Number float64
	Text   string
	Format string
	IsText bool
}

func Number(v float64, format string) Value {
	return Value{Number: v, Format: format}
}

func Text(s string) Value {
	return Value{Text: s, IsText: true}
}

func (v Value) String() string {
	if v.IsText {
		return v.Text
	}
	format := v.Format
	if format == "" {
		format = "%.0f"
	}
	return fmt.Sprintf(format, v.Number)
}

// Graph is a chart of recent samples over a fixed vertical range.
type Graph struct {
	Title     string
	Values    []float64
	Min, Max  float64
	Histogram bool
}

// Entry is one ordered element of a plan. The concrete types are
// WidgetEntry, GraphEntry, ExecEntry and TextEntry.
type Entry interface {
	Token() string
	Param() string
	emit(f *frame)
}
