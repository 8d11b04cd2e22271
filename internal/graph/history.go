// Package graph keeps the per-metric sample windows and running maxima that
// back the overlay's trend charts.
package graph

import (
	"math"

	"codeberg.org/mutker/hudstats/internal/metrics"
)

// DefaultCapacity is the number of samples a chart shows.
const DefaultCapacity = 50

// FrameTimeMax is the fixed upper bound of the frame time chart, in ms.
const FrameTimeMax = 50

type series struct {
	values []float64
	max    float64
	seen   bool
}

// History is a set of fixed-capacity FIFO windows, one per metric kind. It is
// not safe for concurrent use; it lives on the frame path.
type History struct {
	capacity int
	series   map[metrics.Kind]*series
}

// NewHistory returns a History keeping capacity samples per kind. A
// non-positive capacity uses DefaultCapacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &History{
		capacity: capacity,
		series:   make(map[metrics.Kind]*series),
	}
}

func (h *History) Capacity() int {
	return h.capacity
}

// Append adds a sample, evicting the oldest once the window is full. NaN
// samples are stored as 0.
func (h *History) Append(k metrics.Kind, value float64) {
	if math.IsNaN(value) {
		value = 0
	}

	s, ok := h.series[k]
	if !ok {
		s = &series{values: make([]float64, 0, h.capacity+1)}
		h.series[k] = s
	}

	s.values = append(s.values, value)
	if len(s.values) > h.capacity {
		s.values = append(s.values[:0], s.values[1:]...)
	}

	if !s.seen || value > s.max {
		s.max = value
		s.seen = true
	}
}

// Series returns a copy of the window, oldest first.
func (h *History) Series(k metrics.Kind) []float64 {
	s, ok := h.series[k]
	if !ok {
		return nil
	}
	return append([]float64(nil), s.values...)
}

// Max returns the largest value appended for k since the History was
// created. It never decreases.
func (h *History) Max(k metrics.Kind) float64 {
	s, ok := h.series[k]
	if !ok {
		return 0
	}
	return s.max
}

// Bounds returns the chart range for k. Loads are fixed at 0..100, memory
// charts scale to the totals in snap and everything else to the running
// maximum.
func (h *History) Bounds(k metrics.Kind, snap *metrics.Snapshot) (lo, hi float64) {
	switch k {
	case metrics.CPULoad, metrics.GPULoad:
		return 0, 100
	case metrics.VRAM:
		return 0, snap.Value(metrics.VRAMTotal)
	case metrics.RAM:
		return 0, snap.Value(metrics.RAMTotal)
	case metrics.FrameTime:
		return 0, FrameTimeMax
	default:
		return 0, h.Max(k)
	}
}
