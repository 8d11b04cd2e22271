package main

import (
	"runtime"
	"time"

	"codeberg.org/mutker/hudstats/internal/battery"
	"codeberg.org/mutker/hudstats/internal/config"
	"codeberg.org/mutker/hudstats/internal/errors"
	"codeberg.org/mutker/hudstats/internal/gpu"
	"codeberg.org/mutker/hudstats/internal/logger"
	"codeberg.org/mutker/hudstats/internal/metrics"
	"codeberg.org/mutker/hudstats/internal/system"
	"github.com/spf13/afero"
)

// source assembles one snapshot per frame. Sensors are read at most once per
// sampling period; frame timing is measured on every frame.
type source struct {
	system  *system.Sampler
	gpu     *gpu.Sampler
	battery *battery.Stats
	period  time.Duration
	layout  string
	fpsCap  float64
	info    metrics.Info

	sensors    *metrics.Snapshot
	lastSample time.Time
	lastFrame  time.Time
}

func newSource(cfg *config.Config, log logger.Logger) (*source, error) {
	errFactory := errors.New()
	fs := afero.NewOsFs()

	sys, err := system.New(fs, log)
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrInitSampler, err)
	}

	s := &source{
		system:  sys,
		battery: battery.NewStats(battery.NewReader(fs, cfg.Battery.Root), battery.Options{AllSlots: cfg.Battery.AllSlots}),
		period:  cfg.Preview.SamplingPeriod,
		layout:  cfg.TimeFormat,
		fpsCap:  float64(cfg.Preview.FPS),
		info: metrics.Info{
			Version: "hudstats " + version,
			Engine:  "hudstats",
			Arch:    runtime.GOARCH,
		},
	}

	if cfg.Preview.GPU {
		g, err := gpu.New(log)
		if err != nil {
			log.Warn().Err(err).Msg("GPU metrics unavailable")
		} else {
			s.gpu = g
			s.info.GPUName = g.Name()
		}
	}

	return s, nil
}

func (s *source) frame(now time.Time) *metrics.Snapshot {
	if s.sensors == nil || now.Sub(s.lastSample) >= s.period {
		s.refresh(now)
	}

	b := metrics.NewBuilder().
		Add(s.sensors.Samples()...).
		SetCores(s.sensors.Cores()).
		SetCoreClocks(s.sensors.CoreClocks()).
		SetBattery(s.sensors.Battery()).
		Set(metrics.FPSLimit, s.fpsCap)

	if !s.lastFrame.IsZero() {
		if dt := now.Sub(s.lastFrame); dt > 0 {
			ms := float64(dt) / float64(time.Millisecond)
			b.Set(metrics.FrameTime, ms).Set(metrics.FPS, 1000/ms)
		}
	}
	s.lastFrame = now

	info := s.info
	info.Time = now.Format(s.layout)

	return b.SetInfo(info).SetTimestamp(now).Build()
}

func (s *source) refresh(now time.Time) {
	b := metrics.NewBuilder()
	s.system.Sample(b)
	if s.gpu != nil {
		s.gpu.Sample(b)
	}
	b.SetBattery(s.battery.Update())

	s.sensors = b.Build()
	s.lastSample = now
}

func (s *source) Close() error {
	if s.gpu == nil {
		return nil
	}
	return s.gpu.Close()
}
