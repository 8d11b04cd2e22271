package main

import (
	"context"
	"time"

	"codeberg.org/mutker/hudstats/internal/errors"
	"codeberg.org/mutker/hudstats/internal/hud"
	"codeberg.org/mutker/hudstats/internal/logger"
	"codeberg.org/mutker/hudstats/internal/metrics"
	"codeberg.org/mutker/hudstats/internal/telemetry"
)

// frameLoop drives source, pipeline and collector at a fixed interval.
type frameLoop struct {
	source    *source
	pipeline  *hud.Pipeline
	collector telemetry.Collector
	interval  time.Duration
	frames    int
	log       logger.Logger
	onFrame   func(snap *metrics.Snapshot, instructions []hud.Instruction) error
}

func (l *frameLoop) run(ctx context.Context) error {
	errFactory := errors.New()

	if l.interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, l.interval.String())
	}

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for n := 0; l.frames <= 0 || n < l.frames; n++ {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			snap := l.source.frame(now)
			instructions := l.pipeline.Compose(ctx, snap)

			if err := l.collector.Record(ctx, snap); err != nil {
				l.log.Warn().Err(err).Msg("Failed to record frame")
			}

			if l.onFrame != nil {
				if err := l.onFrame(snap, instructions); err != nil {
					return errFactory.Wrap(errors.ErrMainLoop, err)
				}
			}
		}
	}

	return nil
}
