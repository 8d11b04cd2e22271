package system_test

import (
	"errors"
	"testing"
	"time"

	"codeberg.org/mutker/hudstats/internal/metrics"
	"codeberg.org/mutker/hudstats/internal/system"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeHost struct {
	total  []cpu.TimesStat
	cores  []cpu.TimesStat
	io     process.IOCountersStat
	energy string
}

func newProbes(h *fakeHost, clock *fakeClock) system.Probes {
	return system.Probes{
		CPUTimes: func(perCPU bool) ([]cpu.TimesStat, error) {
			if perCPU {
				return append([]cpu.TimesStat(nil), h.cores...), nil
			}
			return append([]cpu.TimesStat(nil), h.total...), nil
		},
		CPUInfo: func() ([]cpu.InfoStat, error) {
			return []cpu.InfoStat{{Mhz: 3000}, {Mhz: 4000}}, nil
		},
		Temperatures: func() ([]host.TemperatureStat, error) {
			return []host.TemperatureStat{
				{SensorKey: "nvme_composite", Temperature: 80},
				{SensorKey: "k10temp_tctl", Temperature: 61.5},
			}, errors.New("partial")
		},
		VirtualMemory: func() (*mem.VirtualMemoryStat, error) {
			return &mem.VirtualMemoryStat{Used: 4 << 30, Total: 16 << 30}, nil
		},
		SwapMemory: func() (*mem.SwapMemoryStat, error) {
			return nil, errors.New("no swap")
		},
		ProcMemory: func() (system.ProcMemory, error) {
			return system.ProcMemory{Resident: 100 << 20, Shared: 10 << 20, Virtual: 2 << 30}, nil
		},
		ProcIO: func() (*process.IOCountersStat, error) {
			io := h.io
			return &io, nil
		},
		Now: clock.Now,
	}
}

func TestSampler(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	h := &fakeHost{
		total: []cpu.TimesStat{{User: 100, Idle: 100}},
		cores: []cpu.TimesStat{{User: 50, Idle: 50}, {User: 50, Idle: 50}},
	}

	fs := afero.NewMemMapFs()
	writeEnergy := func(uj string) {
		require.NoError(t, afero.WriteFile(fs, "/sys/class/powercap/intel-rapl:0/energy_uj", []byte(uj+"\n"), 0o644))
	}
	writeEnergy("1000000")

	s := system.NewWithProbes(newProbes(h, clock), fs, nil)

	first := metrics.NewBuilder()
	s.Sample(first)
	snap := first.Build()
	assert.Zero(t, snap.Value(metrics.CPULoad), "Expected no load before a delta exists")
	assert.Equal(t, 61.5, snap.Value(metrics.CPUTemp))
	assert.Equal(t, 4.0, snap.Value(metrics.RAM))
	assert.Equal(t, 16.0, snap.Value(metrics.RAMTotal))
	assert.Equal(t, 3500.0, snap.Value(metrics.CPUMHz))
	assert.Equal(t, []float64{3000, 4000}, snap.CoreClocks())
	assert.Equal(t, float64(100<<20), snap.Value(metrics.ProcResident))
	assert.False(t, snap.Has(metrics.Swap))

	// 75% busy overall, cores at 100% and 50%.
	h.total = []cpu.TimesStat{{User: 175, Idle: 125}}
	h.cores = []cpu.TimesStat{{User: 100, Idle: 50}, {User: 75, Idle: 75}}
	h.io = process.IOCountersStat{ReadBytes: 4 << 20, WriteBytes: 2 << 20}
	writeEnergy("21000000")
	clock.Advance(2 * time.Second)

	second := metrics.NewBuilder()
	s.Sample(second)
	snap = second.Build()
	assert.InDelta(t, 75.0, snap.Value(metrics.CPULoad), 1e-9)
	assert.InDeltaSlice(t, []float64{100, 50}, snap.Cores(), 1e-9)
	assert.InDelta(t, 2.0, snap.Value(metrics.IORead), 1e-9)
	assert.InDelta(t, 1.0, snap.Value(metrics.IOWrite), 1e-9)
	assert.InDelta(t, 10.0, snap.Value(metrics.CPUPower), 1e-9)
}

func TestSamplerNoProbes(t *testing.T) {
	s := system.NewWithProbes(system.Probes{}, afero.NewMemMapFs(), nil)

	b := metrics.NewBuilder()
	s.Sample(b)
	snap := b.Build()

	assert.Zero(t, snap.Value(metrics.CPULoad))
	assert.Zero(t, snap.Value(metrics.CPUPower))
	assert.Empty(t, snap.Cores())
}
