package telemetry

import (
	"context"

	"codeberg.org/mutker/hudstats/internal/errors"
	"codeberg.org/mutker/hudstats/internal/logger"
	"codeberg.org/mutker/hudstats/internal/metrics"
)

type service struct {
	repo Repository
}

type noopCollector struct{}

func (noopCollector) Record(context.Context, *metrics.Snapshot) error { return nil }
func (noopCollector) Close() error                                    { return nil }

// NewService returns a collector that discards frames when cfg.Enabled is
// false, and one backed by the sqlite frame log otherwise.
func NewService(cfg Config, log logger.Logger) (Collector, error) {
	if !cfg.Enabled {
		return noopCollector{}, nil
	}

	repo, err := NewRepository(cfg, log)
	if err != nil {
		return nil, err
	}

	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, snapshot *metrics.Snapshot) error {
	errFactory := errors.New()

	if snapshot == nil {
		return errFactory.New(ErrInvalidSnapshot)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
	}

	if err := s.repo.Record(snapshot); err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	return nil
}

func (s *service) Close() error {
	return s.repo.Close()
}
