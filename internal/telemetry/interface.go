// Package telemetry keeps an optional sqlite log of sampled frames.
package telemetry

import (
	"context"

	"codeberg.org/mutker/hudstats/internal/metrics"
)

// Collector records frames. Close flushes whatever is still buffered.
type Collector interface {
	Record(ctx context.Context, snapshot *metrics.Snapshot) error
	Close() error
}

// Repository is the storage behind an enabled Collector.
type Repository interface {
	Record(snapshot *metrics.Snapshot) error
	Flush() error
	Count(ctx context.Context) (Counts, error)
	Close() error
}

// Counts reports how many rows the log holds.
type Counts struct {
	Frames  int
	Samples int
}
