package system

import "github.com/shirou/gopsutil/v3/process"

func procMemory(p *process.Process) (ProcMemory, error) {
	info, err := p.MemoryInfoEx()
	if err != nil {
		return ProcMemory{}, err
	}
	return ProcMemory{Resident: info.RSS, Shared: info.Shared, Virtual: info.VMS}, nil
}
