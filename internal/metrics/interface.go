package metrics

import (
	"time"

	"codeberg.org/mutker/hudstats/internal/battery"
)

// Kind identifies one scalar metric.
type Kind int

const (
	CPULoad Kind = iota
	GPULoad
	CPUTemp
	GPUTemp
	GPUCoreClock
	GPUMemClock
	VRAM
	RAM
	VRAMTotal
	RAMTotal
	Swap
	CPUMHz
	CPUPower
	GPUPower
	FPS
	FrameTime
	IORead
	IOWrite
	ProcResident
	ProcShared
	ProcVirt
	FPSLimit

	kindCount
)

// Sample is one tagged metric value.
type Sample struct {
	Kind  Kind
	Value float64
}

// Info holds the string and flag metrics of a frame.
type Info struct {
	Version       string
	Time          string
	GPUName       string
	Engine        string
	EngineVersion string
	Driver        string
	Arch          string
	Wine          string
	Resolution    string
	GameMode      bool
	VkBasalt      bool
}

// Snapshot is the immutable set of metric values for one frame. Build one
// with a Builder.
type Snapshot struct {
	timestamp time.Time
	values    [kindCount]float64
	present   [kindCount]bool
	cores     []float64
	coreMHz   []float64
	info      Info
	battery   battery.Aggregate
}
