package gpu

import (
	"testing"

	"codeberg.org/mutker/hudstats/internal/errors"
	"codeberg.org/mutker/hudstats/internal/metrics"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	failPower bool
}

func (fakeDevice) GetName() (string, nvml.Return) { return "NVIDIA GeForce RTX 4070", nvml.SUCCESS }

func (fakeDevice) GetUtilizationRates() (nvml.Utilization, nvml.Return) {
	return nvml.Utilization{Gpu: 87, Memory: 40}, nvml.SUCCESS
}

func (fakeDevice) GetTemperature(nvml.TemperatureSensors) (uint32, nvml.Return) {
	return 66, nvml.SUCCESS
}

func (fakeDevice) GetClockInfo(clock nvml.ClockType) (uint32, nvml.Return) {
	if clock == nvml.CLOCK_MEM {
		return 10501, nvml.SUCCESS
	}
	return 2610, nvml.SUCCESS
}

func (fakeDevice) GetMemoryInfo() (nvml.Memory, nvml.Return) {
	return nvml.Memory{Total: 12 << 30, Used: 3 << 30}, nvml.SUCCESS
}

func (d fakeDevice) GetPowerUsage() (uint32, nvml.Return) {
	if d.failPower {
		return 0, nvml.ERROR_NOT_SUPPORTED
	}
	return 185500, nvml.SUCCESS
}

type fakeLib struct {
	count    int
	initErr  error
	shutdown int
}

func (l *fakeLib) Initialize() error { return l.initErr }

func (l *fakeLib) Shutdown() error {
	l.shutdown++
	return nil
}

func (l *fakeLib) GetDeviceCount() (int, error) { return l.count, nil }

func (*fakeLib) GetDevice(int) (Device, error) { return fakeDevice{}, nil }

func TestSample(t *testing.T) {
	s := NewWithDevice(fakeDevice{}, nil)
	assert.Equal(t, "NVIDIA GeForce RTX 4070", s.Name())

	b := metrics.NewBuilder()
	s.Sample(b)
	snap := b.Build()

	assert.Equal(t, 87.0, snap.Value(metrics.GPULoad))
	assert.Equal(t, 66.0, snap.Value(metrics.GPUTemp))
	assert.Equal(t, 2610.0, snap.Value(metrics.GPUCoreClock))
	assert.Equal(t, 10501.0, snap.Value(metrics.GPUMemClock))
	assert.Equal(t, 3.0, snap.Value(metrics.VRAM))
	assert.Equal(t, 12.0, snap.Value(metrics.VRAMTotal))
	assert.InDelta(t, 185.5, snap.Value(metrics.GPUPower), 1e-9)
	assert.NoError(t, s.Close())
}

func TestSampleSkipsUnsupported(t *testing.T) {
	s := NewWithDevice(fakeDevice{failPower: true}, nil)

	b := metrics.NewBuilder()
	s.Sample(b)
	snap := b.Build()

	assert.False(t, snap.Has(metrics.GPUPower))
	assert.True(t, snap.Has(metrics.GPULoad))
}

func TestNewSamplerNoDevices(t *testing.T) {
	lib := &fakeLib{}

	_, err := newSampler(lib, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrNoDevices))
	assert.Equal(t, 1, lib.shutdown)
}

func TestNewSamplerInitFailure(t *testing.T) {
	lib := &fakeLib{initErr: errors.New().New(ErrInitFailed)}

	_, err := newSampler(lib, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrInitFailed))
	assert.Zero(t, lib.shutdown)
}

func TestNewSamplerClose(t *testing.T) {
	lib := &fakeLib{count: 1}

	s, err := newSampler(lib, nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.Equal(t, 1, lib.shutdown)
}
