// Package system samples CPU, memory and per-process metrics through
// gopsutil.
package system

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"codeberg.org/mutker/hudstats/internal/errors"
	"codeberg.org/mutker/hudstats/internal/logger"
	"codeberg.org/mutker/hudstats/internal/metrics"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/spf13/afero"
)

const (
	gib = 1024 * 1024 * 1024
	mib = 1024 * 1024

	raplEnergyFile = "/sys/class/powercap/intel-rapl:0/energy_uj"
)

// cpuSensors are the hwmon sensor key prefixes that describe the CPU package.
var cpuSensors = []string{"coretemp_package", "k10temp_tctl", "zenpower_tdie", "cpu_thermal", "coretemp"}

// Sampler keeps the previous counters needed to turn totals into rates.
// It is not safe for concurrent use.
type Sampler struct {
	probes Probes
	fs     afero.Fs
	log    logger.Logger
	now    func() time.Time

	prevTotal, prevIdle float64
	prevCores           []cpu.TimesStat

	prevIO     *process.IOCountersStat
	prevIOTime time.Time

	prevEnergy     float64
	prevEnergyTime time.Time
}

// New samples the current process. fs is used for the RAPL energy counter.
func New(fs afero.Fs, log logger.Logger) (*Sampler, error) {
	errFactory := errors.New()

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, errFactory.Wrap(ErrProcessLookup, err)
	}

	probes := Probes{
		CPUTimes:      cpu.Times,
		CPUInfo:       cpu.Info,
		Temperatures:  host.SensorsTemperatures,
		VirtualMemory: mem.VirtualMemory,
		SwapMemory:    mem.SwapMemory,
		ProcMemory:    func() (ProcMemory, error) { return procMemory(proc) },
		ProcIO:        proc.IOCounters,
	}

	return NewWithProbes(probes, fs, log), nil
}

// NewWithProbes builds a Sampler over caller-supplied probes.
func NewWithProbes(probes Probes, fs afero.Fs, log logger.Logger) *Sampler {
	if log == nil {
		log = logger.Nop()
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}

	now := probes.Now
	if now == nil {
		now = time.Now
	}

	return &Sampler{probes: probes, fs: fs, log: log, now: now}
}

// Sample writes the current readings into b. Failed probes leave their
// metrics at zero.
func (s *Sampler) Sample(b *metrics.Builder) {
	now := s.now()

	total, cores := s.cpuLoad()
	b.Set(metrics.CPULoad, total).SetCores(cores)

	if mhz := s.cpuClocks(); len(mhz) > 0 {
		var sum float64
		for _, v := range mhz {
			sum += v
		}
		b.Set(metrics.CPUMHz, sum/float64(len(mhz))).SetCoreClocks(mhz)
	}

	b.Set(metrics.CPUTemp, s.cpuTemp())
	b.Set(metrics.CPUPower, s.cpuPower(now))

	if s.probes.VirtualMemory != nil {
		if vm, err := s.probes.VirtualMemory(); err == nil && vm != nil {
			b.Set(metrics.RAM, float64(vm.Used)/gib).Set(metrics.RAMTotal, float64(vm.Total)/gib)
		} else {
			s.log.Debug().Err(err).Msg("Failed to read memory")
		}
	}
	if s.probes.SwapMemory != nil {
		if sw, err := s.probes.SwapMemory(); err == nil && sw != nil {
			b.Set(metrics.Swap, float64(sw.Used)/gib)
		}
	}

	if s.probes.ProcMemory != nil {
		if pm, err := s.probes.ProcMemory(); err == nil {
			b.Set(metrics.ProcResident, float64(pm.Resident)).
				Set(metrics.ProcShared, float64(pm.Shared)).
				Set(metrics.ProcVirt, float64(pm.Virtual))
		}
	}

	read, write := s.ioRates(now)
	b.Set(metrics.IORead, read).Set(metrics.IOWrite, write)
}

// cpuLoad derives busy percentages from the time deltas since the previous
// call. The first call reports zero.
func (s *Sampler) cpuLoad() (float64, []float64) {
	if s.probes.CPUTimes == nil {
		return 0, nil
	}

	var total float64
	if times, err := s.probes.CPUTimes(false); err == nil && len(times) > 0 {
		cur := times[0]
		curTotal, curIdle := cur.Total(), cur.Idle+cur.Iowait
		if s.prevTotal > 0 {
			if dt := curTotal - s.prevTotal; dt > 0 {
				total = 100 * (1 - (curIdle-s.prevIdle)/dt)
			}
		}
		s.prevTotal, s.prevIdle = curTotal, curIdle
	}

	coreTimes, err := s.probes.CPUTimes(true)
	if err != nil {
		return clampPercent(total), nil
	}

	cores := make([]float64, len(coreTimes))
	for i, c := range coreTimes {
		if i >= len(s.prevCores) {
			continue
		}
		prev := s.prevCores[i]
		if dt := c.Total() - prev.Total(); dt > 0 {
			idle := (c.Idle + c.Iowait) - (prev.Idle + prev.Iowait)
			cores[i] = clampPercent(100 * (1 - idle/dt))
		}
	}
	s.prevCores = coreTimes

	return clampPercent(total), cores
}

func (s *Sampler) cpuClocks() []float64 {
	if s.probes.CPUInfo == nil {
		return nil
	}

	infos, err := s.probes.CPUInfo()
	if err != nil {
		return nil
	}

	mhz := make([]float64, 0, len(infos))
	for _, info := range infos {
		mhz = append(mhz, info.Mhz)
	}
	return mhz
}

func (s *Sampler) cpuTemp() float64 {
	if s.probes.Temperatures == nil {
		return 0
	}

	// A partial sensor list comes back together with a warning error.
	temps, _ := s.probes.Temperatures()
	for _, prefix := range cpuSensors {
		best := 0.0
		for _, t := range temps {
			if strings.HasPrefix(t.SensorKey, prefix) && t.Temperature > best {
				best = t.Temperature
			}
		}
		if best > 0 {
			return best
		}
	}
	return 0
}

// cpuPower reads the RAPL package energy counter and returns the average
// draw since the previous call, in watts.
func (s *Sampler) cpuPower(now time.Time) float64 {
	data, err := afero.ReadFile(s.fs, filepath.Clean(raplEnergyFile))
	if err != nil {
		return 0
	}
	uj, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0
	}

	var watts float64
	if !s.prevEnergyTime.IsZero() {
		dt := now.Sub(s.prevEnergyTime).Seconds()
		if delta := uj - s.prevEnergy; dt > 0 && delta >= 0 {
			watts = delta / 1e6 / dt
		}
	}
	s.prevEnergy, s.prevEnergyTime = uj, now

	return watts
}

// ioRates returns process read and write throughput in MiB/s.
func (s *Sampler) ioRates(now time.Time) (float64, float64) {
	if s.probes.ProcIO == nil {
		return 0, 0
	}

	cur, err := s.probes.ProcIO()
	if err != nil || cur == nil {
		return 0, 0
	}

	var read, write float64
	if s.prevIO != nil {
		if dt := now.Sub(s.prevIOTime).Seconds(); dt > 0 {
			if cur.ReadBytes >= s.prevIO.ReadBytes {
				read = float64(cur.ReadBytes-s.prevIO.ReadBytes) / mib / dt
			}
			if cur.WriteBytes >= s.prevIO.WriteBytes {
				write = float64(cur.WriteBytes-s.prevIO.WriteBytes) / mib / dt
			}
		}
	}
	s.prevIO, s.prevIOTime = cur, now

	return read, write
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
