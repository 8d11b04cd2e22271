package graph_test

import (
	"math"
	"testing"

	"codeberg.org/mutker/hudstats/internal/graph"
	"codeberg.org/mutker/hudstats/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryWindow(t *testing.T) {
	h := graph.NewHistory(0)
	require.Equal(t, graph.DefaultCapacity, h.Capacity())

	// Temperatures peak early so the window slides past the maximum.
	var all []float64
	for i := range 60 {
		v := 40 + float64(i%7)
		if i == 3 {
			v = 95
		}
		all = append(all, v)
		h.Append(metrics.CPUTemp, v)
	}

	got := h.Series(metrics.CPUTemp)
	require.Len(t, got, 50)
	assert.Equal(t, all[10:], got)
	assert.Equal(t, 95.0, h.Max(metrics.CPUTemp))
	assert.NotContains(t, got, 95.0)

	_, hi := h.Bounds(metrics.CPUTemp, metrics.NewBuilder().Build())
	assert.Equal(t, 95.0, hi)
}

func TestHistoryMaxNeverDecreases(t *testing.T) {
	h := graph.NewHistory(3)

	prev := math.Inf(-1)
	for _, v := range []float64{1500, 1800, 1200, 900, 2100, 300} {
		h.Append(metrics.GPUCoreClock, v)
		assert.GreaterOrEqual(t, h.Max(metrics.GPUCoreClock), prev)
		prev = h.Max(metrics.GPUCoreClock)
	}

	assert.Equal(t, 2100.0, h.Max(metrics.GPUCoreClock))
	assert.Equal(t, []float64{900, 2100, 300}, h.Series(metrics.GPUCoreClock))
}

func TestHistoryNegativeMax(t *testing.T) {
	h := graph.NewHistory(5)
	h.Append(metrics.CPUTemp, -5)
	h.Append(metrics.CPUTemp, -10)
	assert.Equal(t, -5.0, h.Max(metrics.CPUTemp))
}

func TestHistorySeriesIsCopy(t *testing.T) {
	h := graph.NewHistory(5)
	h.Append(metrics.RAM, 1)

	got := h.Series(metrics.RAM)
	got[0] = 42
	assert.Equal(t, []float64{1}, h.Series(metrics.RAM))
	assert.Nil(t, h.Series(metrics.VRAM))
	assert.Zero(t, h.Max(metrics.VRAM))
}

func TestHistoryNaN(t *testing.T) {
	h := graph.NewHistory(5)
	h.Append(metrics.GPULoad, math.NaN())
	assert.Equal(t, []float64{0}, h.Series(metrics.GPULoad))
}

func TestBounds(t *testing.T) {
	h := graph.NewHistory(5)
	h.Append(metrics.GPUTemp, 70)
	h.Append(metrics.GPUMemClock, 7000)

	snap := metrics.NewBuilder().
		Set(metrics.VRAMTotal, 8).
		Set(metrics.RAMTotal, 32).
		Build()

	tests := []struct {
		kind metrics.Kind
		hi   float64
	}{
		{metrics.CPULoad, 100},
		{metrics.GPULoad, 100},
		{metrics.GPUTemp, 70},
		{metrics.GPUMemClock, 7000},
		{metrics.GPUCoreClock, 0},
		{metrics.VRAM, 8},
		{metrics.RAM, 32},
		{metrics.FrameTime, graph.FrameTimeMax},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			lo, hi := h.Bounds(tt.kind, snap)
			assert.Zero(t, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}
