package metrics

import (
	"time"

	"codeberg.org/mutker/hudstats/internal/battery"
)

// Value returns the metric, or 0 when it was not sampled.
func (s *Snapshot) Value(k Kind) float64 {
	if !k.Valid() {
		return 0
	}
	return s.values[k]
}

// Has reports whether the metric was sampled for this frame.
func (s *Snapshot) Has(k Kind) bool {
	return k.Valid() && s.present[k]
}

// Samples returns the sampled metrics in kind order.
func (s *Snapshot) Samples() []Sample {
	samples := make([]Sample, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		if s.present[k] {
			samples = append(samples, Sample{Kind: k, Value: s.values[k]})
		}
	}
	return samples
}

// Cores returns a copy of the per-core loads.
func (s *Snapshot) Cores() []float64 {
	return append([]float64(nil), s.cores...)
}

// CoreClocks returns a copy of the per-core frequencies in MHz.
func (s *Snapshot) CoreClocks() []float64 {
	return append([]float64(nil), s.coreMHz...)
}

func (s *Snapshot) Info() Info                 { return s.info }
func (s *Snapshot) Battery() battery.Aggregate { return s.battery }
func (s *Snapshot) Timestamp() time.Time       { return s.timestamp }

// Builder assembles a Snapshot. A Builder may be reused; Build copies its
// state.
type Builder struct {
	snap Snapshot
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Set records a metric. Unknown kinds are ignored.
func (b *Builder) Set(k Kind, v float64) *Builder {
	if k.Valid() {
		b.snap.values[k] = v
		b.snap.present[k] = true
	}
	return b
}

func (b *Builder) Add(samples ...Sample) *Builder {
	for _, s := range samples {
		b.Set(s.Kind, s.Value)
	}
	return b
}

func (b *Builder) SetCores(loads []float64) *Builder {
	b.snap.cores = append(b.snap.cores[:0:0], loads...)
	return b
}

func (b *Builder) SetCoreClocks(mhz []float64) *Builder {
	b.snap.coreMHz = append(b.snap.coreMHz[:0:0], mhz...)
	return b
}

func (b *Builder) SetBattery(agg battery.Aggregate) *Builder {
	b.snap.battery = agg
	return b
}

func (b *Builder) SetInfo(info Info) *Builder {
	b.snap.info = info
	return b
}

func (b *Builder) SetTimestamp(ts time.Time) *Builder {
	b.snap.timestamp = ts
	return b
}

// Build returns an independent snapshot. A zero timestamp is replaced with
// the current time.
func (b *Builder) Build() *Snapshot {
	snap := b.snap
	snap.cores = append([]float64(nil), b.snap.cores...)
	snap.coreMHz = append([]float64(nil), b.snap.coreMHz...)
	if snap.timestamp.IsZero() {
		snap.timestamp = time.Now()
	}
	return &snap
}
