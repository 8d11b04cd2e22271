package metrics

var kindNames = [kindCount]string{
	CPULoad:      "cpu_load",
	GPULoad:      "gpu_load",
	CPUTemp:      "cpu_temp",
	GPUTemp:      "gpu_temp",
	GPUCoreClock: "gpu_core_clock",
	GPUMemClock:  "gpu_mem_clock",
	VRAM:         "vram",
	RAM:          "ram",
	VRAMTotal:    "vram_total",
	RAMTotal:     "ram_total",
	Swap:         "swap",
	CPUMHz:       "cpu_mhz",
	CPUPower:     "cpu_power",
	GPUPower:     "gpu_power",
	FPS:          "fps",
	FrameTime:    "frametime",
	IORead:       "io_read",
	IOWrite:      "io_write",
	ProcResident: "proc_resident",
	ProcShared:   "proc_shared",
	ProcVirt:     "proc_virt",
	FPSLimit:     "fps_limit",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// Kinds lists every declared kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, kindCount)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// ParseKind is the inverse of Kind.String.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// graphKinds is the closed set of metrics a graphs element may chart.
var graphKinds = map[string]Kind{
	"cpu_load":       CPULoad,
	"gpu_load":       GPULoad,
	"cpu_temp":       CPUTemp,
	"gpu_temp":       GPUTemp,
	"gpu_core_clock": GPUCoreClock,
	"gpu_mem_clock":  GPUMemClock,
	"vram":           VRAM,
	"ram":            RAM,
}

// KindForGraph maps a graphs sub-token to its metric.
func KindForGraph(token string) (Kind, bool) {
	k, ok := graphKinds[token]
	return k, ok
}
