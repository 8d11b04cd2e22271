package telemetry

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"codeberg.org/mutker/hudstats/internal/errors"
	"codeberg.org/mutker/hudstats/internal/logger"
	"codeberg.org/mutker/hudstats/internal/metrics"

	_ "github.com/mattn/go-sqlite3"
)

// maxBufferedBatches bounds how many unwritten batches are kept while the
// database is failing.
const maxBufferedBatches = 10

type repository struct {
	db            *sql.DB
	log           logger.Logger
	cfg           Config
	mu            sync.Mutex
	buffer        []*metrics.Snapshot
	flushTicker   *time.Ticker
	shutdownChan  chan struct{}
	flushDoneChan chan struct{}
	closeOnce     sync.Once
}

// NewRepository opens (or creates) the frame log at cfg.DBPath.
func NewRepository(cfg Config, log logger.Logger) (Repository, error) {
	errFactory := errors.New()

	if log == nil {
		log = logger.Nop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Path  string
			Error string
		}{
			Phase: "create_directory",
			Path:  cfg.DBPath,
			Error: err.Error(),
		})
	}

	dsn := cfg.DBPath + "?_journal=WAL&_auto_vacuum=2&_foreign_keys=1"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "open_database",
			Error: err.Error(),
		})
	}

	if err := ValidateAndUpdateSchema(db, cfg.BackupDir, log); err != nil {
		db.Close()
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "schema_version",
			Error: err.Error(),
		})
	}

	log.Info().
		Str("path", cfg.DBPath).
		Int("schema_version", SchemaVersion).
		Int("batch_size", cfg.BatchSize).
		Dur("batch_timeout", cfg.BatchTimeout).
		Msg("Frame log initialized")

	repo := &repository{
		db:            db,
		log:           log,
		cfg:           cfg,
		buffer:        make([]*metrics.Snapshot, 0, cfg.BatchSize),
		shutdownChan:  make(chan struct{}),
		flushDoneChan: make(chan struct{}),
	}

	if cfg.BatchSize > 0 && cfg.BatchTimeout > 0 {
		repo.flushTicker = time.NewTicker(cfg.BatchTimeout)
		go repo.flusher()
	} else {
		close(repo.flushDoneChan)
	}

	return repo, nil
}

func (r *repository) Record(snapshot *metrics.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buffer = append(r.buffer, snapshot)

	if len(r.buffer) >= r.cfg.BatchSize {
		return r.flush()
	}

	return nil
}

func (r *repository) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flush()
}

func (r *repository) Count(ctx context.Context) (Counts, error) {
	var c Counts
	err := r.db.QueryRowContext(ctx, `
        SELECT (SELECT COUNT(*) FROM frames), (SELECT COUNT(*) FROM samples)
    `).Scan(&c.Frames, &c.Samples)
	if err != nil {
		return Counts{}, errors.New().Wrap(ErrStorageAccess, err)
	}
	return c, nil
}

func (r *repository) Close() error {
	var err error
	r.closeOnce.Do(func() {
		err = r.close()
	})
	return err
}

func (r *repository) close() error {
	errFactory := errors.New()

	close(r.shutdownChan)
	if r.flushTicker != nil {
		r.flushTicker.Stop()
	}
	<-r.flushDoneChan

	// Without a flusher goroutine nothing drained the buffer.
	if r.flushTicker == nil {
		r.mu.Lock()
		if err := r.flush(); err != nil {
			r.log.Error().Err(err).Msg("Failed to flush frames on close")
		}
		r.mu.Unlock()
	}

	if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return errFactory.WithData(ErrStorageClose, struct {
			Phase string
			Error string
		}{
			Phase: "checkpoint_wal",
			Error: err.Error(),
		})
	}

	if err := r.db.Close(); err != nil {
		return errFactory.WithData(ErrStorageClose, struct {
			Phase string
			Error string
		}{
			Phase: "close_database",
			Error: err.Error(),
		})
	}

	r.log.Info().Msg("Frame log closed")

	return nil
}

func (r *repository) flusher() {
	defer close(r.flushDoneChan)

	for {
		select {
		case <-r.flushTicker.C:
			r.mu.Lock()
			if err := r.flush(); err != nil {
				r.log.Warn().Err(err).Msg("Periodic flush failed")
			}
			r.mu.Unlock()
		case <-r.shutdownChan:
			r.mu.Lock()
			if err := r.flush(); err != nil {
				r.log.Error().Err(err).Msg("Failed to flush frames on close")
			}
			r.mu.Unlock()
			return
		}
	}
}

// flush writes the buffer in one transaction. Callers hold r.mu. When the
// write fails the frames stay buffered for the next attempt, up to
// bufferLimit; older frames beyond that are dropped.
func (r *repository) flush() error {
	err := r.write()
	if err != nil {
		r.trim()
	}
	return err
}

func (r *repository) bufferLimit() int {
	return max(r.cfg.BatchSize, 1) * maxBufferedBatches
}

func (r *repository) trim() {
	excess := len(r.buffer) - r.bufferLimit()
	if excess <= 0 {
		return
	}

	n := copy(r.buffer, r.buffer[excess:])
	clear(r.buffer[n:])
	r.buffer = r.buffer[:n]

	r.log.Warn().
		Int("dropped", excess).
		Int("buffered", n).
		Msg("Frame buffer full, dropped oldest frames")
}

func (r *repository) write() error {
	if len(r.buffer) == 0 {
		return nil
	}

	errFactory := errors.New()

	tx, err := r.db.Begin()
	if err != nil {
		return errFactory.Wrap(ErrTransactionFailed, err)
	}

	rollback := func(cause error) error {
		if err := tx.Rollback(); err != nil {
			r.log.Error().Err(err).Msg("Failed to roll back transaction")
		}
		return errFactory.Wrap(ErrTransactionFailed, cause)
	}

	frameStmt, err := tx.Prepare(insertFrameSQL)
	if err != nil {
		return rollback(err)
	}
	defer frameStmt.Close()

	sampleStmt, err := tx.Prepare(insertSampleSQL)
	if err != nil {
		return rollback(err)
	}
	defer sampleStmt.Close()

	for _, snap := range r.buffer {
		bat := snap.Battery()
		res, err := frameStmt.Exec(
			snap.Timestamp().UnixMilli(),
			bat.Count,
			bat.Percent,
			bat.Watt,
			boolToInt(bat.Charging),
			boolToInt(bat.Full),
		)
		if err != nil {
			return rollback(err)
		}

		frameID, err := res.LastInsertId()
		if err != nil {
			return rollback(err)
		}

		for _, s := range snap.Samples() {
			if _, err := sampleStmt.Exec(frameID, s.Kind.String(), s.Value); err != nil {
				return rollback(err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrTransactionFailed, err)
	}

	r.log.Debug().Int("frames", len(r.buffer)).Msg("Flushed frames to database")
	r.buffer = r.buffer[:0]

	return nil
}
