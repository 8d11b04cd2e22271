package telemetry

import (
	"time"

	"codeberg.org/mutker/hudstats/internal/config"
	"codeberg.org/mutker/hudstats/internal/errors"
)

const (
	defaultDirPerm      = 0o755
	DefaultBatchSize    = 60
	DefaultBatchTimeout = 5 * time.Second
)

type Config struct {
	Enabled      bool
	DBPath       string
	BatchSize    int
	BatchTimeout time.Duration
	BackupDir    string
}

// FromConfig maps the telemetry section of the application config.
func FromConfig(c config.TelemetryConfig) Config {
	cfg := Config{
		Enabled:      c.Enabled,
		DBPath:       c.DBPath,
		BatchSize:    c.BatchSize,
		BatchTimeout: c.BatchTimeout,
		BackupDir:    c.BackupDir,
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	return cfg
}

func (c Config) Validate() error {
	errFactory := errors.New()
	if c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}
	if c.BatchSize < 0 || c.BatchTimeout < 0 {
		return errFactory.WithData(ErrInvalidConfig, struct {
			BatchSize    int
			BatchTimeout time.Duration
		}{
			BatchSize:    c.BatchSize,
			BatchTimeout: c.BatchTimeout,
		})
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
