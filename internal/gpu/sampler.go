// Package gpu samples the first NVIDIA GPU through NVML.
package gpu

import (
	"codeberg.org/mutker/hudstats/internal/errors"
	"codeberg.org/mutker/hudstats/internal/logger"
	"codeberg.org/mutker/hudstats/internal/metrics"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

const (
	bytesPerGiB       = 1024 * 1024 * 1024
	milliWattsToWatts = 1000
)

// Sampler reads load, temperature, clocks, memory and power of one device.
type Sampler struct {
	lib    nvmlController
	device Device
	name   string
	log    logger.Logger
}

// New initializes NVML and opens device 0. The returned error carries
// ErrInitFailed or ErrNoDevices when no NVIDIA GPU can be used.
func New(log logger.Logger) (*Sampler, error) {
	return newSampler(&nvmlWrapper{}, log)
}

func newSampler(lib nvmlController, log logger.Logger) (*Sampler, error) {
	errFactory := errors.New()

	if err := lib.Initialize(); err != nil {
		return nil, err
	}

	count, err := lib.GetDeviceCount()
	if err != nil {
		_ = lib.Shutdown()
		return nil, err
	}
	if count == 0 {
		_ = lib.Shutdown()
		return nil, errFactory.New(ErrNoDevices)
	}

	device, err := lib.GetDevice(0)
	if err != nil {
		_ = lib.Shutdown()
		return nil, err
	}

	s := NewWithDevice(device, log)
	s.lib = lib

	return s, nil
}

// NewWithDevice samples an already opened device. Close is then a no-op.
func NewWithDevice(device Device, log logger.Logger) *Sampler {
	if log == nil {
		log = logger.Nop()
	}

	s := &Sampler{device: device, log: log}
	if name, ret := device.GetName(); IsNVMLSuccess(ret) {
		s.name = name
		log.Info().Str("gpu", name).Msg("Detected GPU")
	} else {
		log.Warn().Str("error", nvml.ErrorString(ret)).Msg("Failed to get GPU name")
	}

	return s
}

func (s *Sampler) Name() string {
	return s.name
}

// Sample writes the readings that succeed into b.
func (s *Sampler) Sample(b *metrics.Builder) {
	if util, ret := s.device.GetUtilizationRates(); IsNVMLSuccess(ret) {
		b.Set(metrics.GPULoad, float64(util.Gpu))
	}
	if temp, ret := s.device.GetTemperature(nvml.TEMPERATURE_GPU); IsNVMLSuccess(ret) {
		b.Set(metrics.GPUTemp, float64(temp))
	}
	if clock, ret := s.device.GetClockInfo(nvml.CLOCK_GRAPHICS); IsNVMLSuccess(ret) {
		b.Set(metrics.GPUCoreClock, float64(clock))
	}
	if clock, ret := s.device.GetClockInfo(nvml.CLOCK_MEM); IsNVMLSuccess(ret) {
		b.Set(metrics.GPUMemClock, float64(clock))
	}
	if mem, ret := s.device.GetMemoryInfo(); IsNVMLSuccess(ret) {
		b.Set(metrics.VRAM, float64(mem.Used)/bytesPerGiB).
			Set(metrics.VRAMTotal, float64(mem.Total)/bytesPerGiB)
	}
	if power, ret := s.device.GetPowerUsage(); IsNVMLSuccess(ret) {
		b.Set(metrics.GPUPower, float64(power)/milliWattsToWatts)
	}
}

// Close shuts NVML down if New opened it.
func (s *Sampler) Close() error {
	if s.lib == nil {
		return nil
	}
	return s.lib.Shutdown()
}
