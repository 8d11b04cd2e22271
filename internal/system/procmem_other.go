//go:build !linux

package system

import "github.com/shirou/gopsutil/v3/process"

func procMemory(p *process.Process) (ProcMemory, error) {
	info, err := p.MemoryInfo()
	if err != nil {
		return ProcMemory{}, err
	}
	return ProcMemory{Resident: info.RSS, Virtual: info.VMS}, nil
}
