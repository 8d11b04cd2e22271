package config

import (
	"context"

	"codeberg.org/mutker/hudstats/internal/errors"
	"codeberg.org/mutker/hudstats/internal/logger"
	"github.com/fsnotify/fsnotify"
)

// Watch implements Watcher. Only one callback is kept; calling Watch again
// replaces it.
func (l *Loader) Watch(ctx context.Context, callback func(*Config)) error {
	errFactory := errors.New()

	if l.v.ConfigFileUsed() == "" {
		return errFactory.WithData(errors.ErrWatchConfig, "no config file loaded")
	}

	l.v.OnConfigChange(func(e fsnotify.Event) {
		if ctx.Err() != nil {
			return
		}
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		cfg, err := l.decode()
		if err != nil {
			logger.Warn().Err(err).Str("file", e.Name).Msg("Ignoring invalid configuration reload")
			return
		}

		l.mu.Lock()
		l.cfg = cfg
		l.mu.Unlock()

		logger.Info().Str("file", e.Name).Msg("Configuration reloaded")
		callback(cfg)
	})
	l.v.WatchConfig()

	return nil
}
