package system

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// ProcMemory is the resident, shared and virtual size of a process in bytes.
type ProcMemory struct {
	Resident uint64
	Shared   uint64
	Virtual  uint64
}

// Probes are the raw data sources of a Sampler. Nil probes are skipped.
type Probes struct {
	CPUTimes      func(perCPU bool) ([]cpu.TimesStat, error)
	CPUInfo       func() ([]cpu.InfoStat, error)
	Temperatures  func() ([]host.TemperatureStat, error)
	VirtualMemory func() (*mem.VirtualMemoryStat, error)
	SwapMemory    func() (*mem.SwapMemoryStat, error)
	ProcMemory    func() (ProcMemory, error)
	ProcIO        func() (*process.IOCountersStat, error)

	// Now is the clock used for rates. Defaults to time.Now.
	Now func() time.Time
}
