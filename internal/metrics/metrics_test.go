package metrics_test

import (
	"testing"
	"time"

	"codeberg.org/mutker/hudstats/internal/battery"
	"codeberg.org/mutker/hudstats/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderSnapshotIsolation(t *testing.T) {
	cores := []float64{10, 20}
	b := metrics.NewBuilder().
		Set(metrics.CPULoad, 42).
		SetCores(cores).
		SetBattery(battery.Aggregate{Count: 1, Percent: 80})

	first := b.Build()

	cores[0] = 99
	b.Set(metrics.CPULoad, 7)
	second := b.Build()

	assert.Equal(t, 42.0, first.Value(metrics.CPULoad))
	assert.Equal(t, []float64{10, 20}, first.Cores())
	assert.Equal(t, 7.0, second.Value(metrics.CPULoad))
	assert.Equal(t, 80.0, second.Battery().Percent)

	got := first.Cores()
	got[1] = 0
	assert.Equal(t, []float64{10, 20}, first.Cores())
}

func TestSnapshotPresence(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	snap := metrics.NewBuilder().
		Add(metrics.Sample{Kind: metrics.GPUTemp, Value: 65}, metrics.Sample{Kind: metrics.FPS, Value: 144}).
		Set(metrics.Kind(-1), 5).
		SetTimestamp(ts).
		Build()

	assert.True(t, snap.Has(metrics.GPUTemp))
	assert.False(t, snap.Has(metrics.CPUTemp))
	assert.Zero(t, snap.Value(metrics.CPUTemp))
	assert.Zero(t, snap.Value(metrics.Kind(1000)))
	assert.Equal(t, ts, snap.Timestamp())
	assert.Equal(t, []metrics.Sample{
		{Kind: metrics.GPUTemp, Value: 65},
		{Kind: metrics.FPS, Value: 144},
	}, snap.Samples())
}

func TestBuildStampsTime(t *testing.T) {
	before := time.Now()
	snap := metrics.NewBuilder().Build()
	assert.False(t, snap.Timestamp().Before(before))
}

func TestKindNames(t *testing.T) {
	for _, k := range metrics.Kinds() {
		name := k.String()
		require.NotEqual(t, "unknown", name)

		parsed, ok := metrics.ParseKind(name)
		require.True(t, ok, name)
		assert.Equal(t, k, parsed)
	}

	_, ok := metrics.ParseKind("bogus")
	assert.False(t, ok)
	assert.Equal(t, "unknown", metrics.Kind(-3).String())
}

func TestKindForGraph(t *testing.T) {
	permitted := []string{"cpu_load", "gpu_load", "cpu_temp", "gpu_temp", "gpu_core_clock", "gpu_mem_clock", "vram", "ram"}
	for _, token := range permitted {
		k, ok := metrics.KindForGraph(token)
		require.True(t, ok, token)
		assert.Equal(t, token, k.String())
	}

	for _, token := range []string{"fps", "swap", "bogus_metric", ""} {
		_, ok := metrics.KindForGraph(token)
		assert.False(t, ok, token)
	}
}
