package hud

import (
	"codeberg.org/mutker/hudstats/internal/execcache"
	"codeberg.org/mutker/hudstats/internal/metrics"
)

type widgetFunc func(f *frame)

// WidgetEntry renders one fixed widget.
type WidgetEntry struct {
	token string
	param string
	fn    widgetFunc
}

func (e WidgetEntry) Token() string { return e.token }
func (e WidgetEntry) Param() string { return e.param }
func (e WidgetEntry) emit(f *frame) { e.fn(f) }

// GraphEntry charts one metric from the graph history.
type GraphEntry struct {
	name string
	kind metrics.Kind
}

func (GraphEntry) Token() string        { return "graphs" }
func (e GraphEntry) Param() string      { return e.name }
func (e GraphEntry) Kind() metrics.Kind { return e.kind }
func (e GraphEntry) emit(f *frame)      { f.graph(e) }

// ExecEntry shows the cached output of its own command slot.
type ExecEntry struct {
	slot *execcache.Slot
}

func (ExecEntry) Token() string           { return "exec" }
func (e ExecEntry) Param() string         { return e.slot.Command() }
func (e ExecEntry) Slot() *execcache.Slot { return e.slot }
func (e ExecEntry) emit(f *frame)         { f.exec(e) }

// TextEntry shows a literal line of text.
type TextEntry struct {
	text     string
	centered bool
}

func (e TextEntry) Token() string {
	if e.centered {
		return "custom_text_center"
	}
	return "custom_text"
}

func (e TextEntry) Param() string  { return e.text }
func (e TextEntry) Centered() bool { return e.centered }
func (e TextEntry) emit(f *frame)  { f.customText(e) }

// Plan is the ordered list of entries walked every frame.
type Plan struct {
	entries []Entry
	legacy  bool
}

// Entries returns a copy of the entries in order.
func (p *Plan) Entries() []Entry {
	return append([]Entry(nil), p.entries...)
}

func (p *Plan) Len() int { return len(p.entries) }

// Legacy reports whether the plan is the fixed canonical ordering.
func (p *Plan) Legacy() bool { return p.legacy }

// ExecSlots returns the command slots in plan order.
func (p *Plan) ExecSlots() []*execcache.Slot {
	var slots []*execcache.Slot
	for _, e := range p.entries {
		if ex, ok := e.(ExecEntry); ok {
			slots = append(slots, ex.slot)
		}
	}
	return slots
}

// GraphKinds returns each charted metric once, in first-seen order.
func (p *Plan) GraphKinds() []metrics.Kind {
	var kinds []metrics.Kind
	seen := make(map[metrics.Kind]bool)
	for _, e := range p.entries {
		if g, ok := e.(GraphEntry); ok && !seen[g.kind] {
			seen[g.kind] = true
			kinds = append(kinds, g.kind)
		}
	}
	return kinds
}
