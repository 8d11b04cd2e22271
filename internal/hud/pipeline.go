package hud

import (
	"context"
	"sync"

	"codeberg.org/mutker/hudstats/internal/graph"
	"codeberg.org/mutker/hudstats/internal/logger"
	"codeberg.org/mutker/hudstats/internal/media"
	"codeberg.org/mutker/hudstats/internal/metrics"
	"codeberg.org/mutker/hudstats/internal/palette"
)

type Deps struct {
	Plan     *Plan
	Options  *Options
	History  *graph.History
	Metadata *media.Metadata
	Log      logger.Logger
}

// Pipeline composes one frame of instructions at a time. Compose runs on the
// frame goroutine; SetPlan, SetOptions and SetVisible may be called from
// others.
type Pipeline struct {
	mu      sync.Mutex
	plan    *Plan
	opts    *Options
	history *graph.History
	media   *media.Metadata
	log     logger.Logger
	visible bool
}

func NewPipeline(d Deps) *Pipeline {
	p := &Pipeline{
		plan:    d.Plan,
		opts:    d.Options,
		history: d.History,
		media:   d.Metadata,
		log:     d.Log,
		visible: true,
	}

	if p.plan == nil {
		p.plan = &Plan{}
	}
	if p.opts == nil {
		p.opts = &Options{}
	}
	if p.history == nil {
		p.history = graph.NewHistory(graph.DefaultCapacity)
	}
	if p.log == nil {
		p.log = logger.Nop()
	}

	return p
}

// SetPlan replaces the plan from the next frame on. History is kept.
func (p *Pipeline) SetPlan(plan *Plan) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.plan = plan
	p.log.Debug().Int("entries", plan.Len()).Msg("Plan replaced")
}

func (p *Pipeline) SetOptions(opts *Options) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.opts = opts
}

// SetVisible toggles composition. While hidden, Compose returns nothing and
// leaves history untouched.
func (p *Pipeline) SetVisible(visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = visible
}

func (p *Pipeline) Plan() *Plan {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.plan
}

func (p *Pipeline) History() *graph.History {
	return p.history
}

// Compose refreshes every exec slot, records this frame's graphed samples
// and walks the plan in order.
func (p *Pipeline) Compose(ctx context.Context, snap *metrics.Snapshot) []Instruction {
	p.mu.Lock()
	plan, opts, visible := p.plan, p.opts, p.visible
	p.mu.Unlock()

	if !visible || snap == nil {
		return nil
	}

	for _, slot := range plan.ExecSlots() {
		slot.Refresh(ctx)
	}

	for _, k := range plan.GraphKinds() {
		p.history.Append(k, snap.Value(k))
	}
	p.history.Append(metrics.FrameTime, frameTimeOf(snap))

	f := &frame{
		opts:    opts,
		snap:    snap,
		history: p.history,
		media:   p.media,
		out:     make([]Instruction, 0, 2*plan.Len()),
	}
	for _, e := range plan.entries {
		f.element = e.Token()
		e.emit(f)
	}

	return f.out
}

func frameTimeOf(snap *metrics.Snapshot) float64 {
	if snap.Has(metrics.FrameTime) {
		return snap.Value(metrics.FrameTime)
	}
	return frameTime(snap.Value(metrics.FPS))
}

// frame is the state of one Compose call.
type frame struct {
	opts    *Options
	snap    *metrics.Snapshot
	history *graph.History
	media   *media.Metadata
	element string
	out     []Instruction
}

func (f *frame) add(in Instruction) {
	in.Element = f.element
	f.out = append(f.out, in)
}

// row starts a labelled row with its first value.
func (f *frame) row(label string, labelColor palette.Color, v Value, unit string, color palette.Color) {
	f.add(Instruction{
		NewRow:     true,
		Label:      label,
		LabelColor: labelColor,
		Value:      v,
		Unit:       unit,
		Color:      color,
	})
}

// line is an unlabelled row holding a single value.
func (f *frame) line(v Value, color palette.Color) {
	f.add(Instruction{NewRow: true, Value: v, Color: color})
}

// next continues the current row.
func (f *frame) next(v Value, unit string, color palette.Color) {
	f.add(Instruction{Value: v, Unit: unit, Color: color})
}

// blankRow starts an empty row so the following values wrap under the
// previous ones.
func (f *frame) blankRow() {
	f.add(Instruction{NewRow: true, Value: Text("")})
}
