package telemetry_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/hudstats/internal/battery"
	"codeberg.org/mutker/hudstats/internal/config"
	"codeberg.org/mutker/hudstats/internal/errors"
	"codeberg.org/mutker/hudstats/internal/metrics"
	"codeberg.org/mutker/hudstats/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) telemetry.Config {
	t.Helper()
	dir := t.TempDir()
	return telemetry.Config{
		Enabled:   true,
		DBPath:    filepath.Join(dir, "state", "frames.db"),
		BatchSize: 3,
		BackupDir: filepath.Join(dir, "backups"),
	}
}

func snapshot(load float64) *metrics.Snapshot {
	return metrics.NewBuilder().
		Set(metrics.CPULoad, load).
		Set(metrics.FPS, 60).
		SetBattery(battery.Aggregate{Count: 1, Percent: 80, Watt: 12.5}).
		SetTimestamp(time.Unix(1700000000, 0)).
		Build()
}

func TestFromConfig(t *testing.T) {
	cfg := telemetry.FromConfig(config.TelemetryConfig{
		Enabled:      true,
		DBPath:       "/tmp/frames.db",
		BatchTimeout: time.Second,
	})

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "/tmp/frames.db", cfg.DBPath)
	assert.Equal(t, telemetry.DefaultBatchSize, cfg.BatchSize)
	assert.Equal(t, time.Second, cfg.BatchTimeout)
}

func TestNewServiceDisabled(t *testing.T) {
	c, err := telemetry.NewService(telemetry.Config{}, nil)
	require.NoError(t, err)

	assert.NoError(t, c.Record(context.Background(), snapshot(1)))
	assert.NoError(t, c.Close())
}

func TestNewRepositoryInvalidPath(t *testing.T) {
	_, err := telemetry.NewRepository(telemetry.Config{Enabled: true}, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, telemetry.ErrInvalidDBPath))
}

func TestRecordFlushesOnBatchSize(t *testing.T) {
	repo, err := telemetry.NewRepository(testConfig(t), nil)
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	require.NoError(t, repo.Record(snapshot(10)))
	require.NoError(t, repo.Record(snapshot(20)))

	counts, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, counts.Frames)

	require.NoError(t, repo.Record(snapshot(30)))

	counts, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, telemetry.Counts{Frames: 3, Samples: 6}, counts)
}

func TestCloseFlushesBuffer(t *testing.T) {
	cfg := testConfig(t)
	cfg.BatchSize = 100

	c, err := telemetry.NewService(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, c.Record(context.Background(), snapshot(50)))
	require.NoError(t, c.Close())

	repo, err := telemetry.NewRepository(cfg, nil)
	require.NoError(t, err)
	defer repo.Close()

	counts, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Frames)
}

func TestCloseWithTicker(t *testing.T) {
	cfg := testConfig(t)
	cfg.BatchSize = 100
	cfg.BatchTimeout = time.Hour

	repo, err := telemetry.NewRepository(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Record(snapshot(1)))
	require.NoError(t, repo.Close())
	assert.NoError(t, repo.Close())

	db, err := sql.Open("sqlite3", cfg.DBPath)
	require.NoError(t, err)
	defer db.Close()

	var frames int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM frames").Scan(&frames))
	assert.Equal(t, 1, frames)
}

func TestRecordRejectsNil(t *testing.T) {
	c, err := telemetry.NewService(testConfig(t), nil)
	require.NoError(t, err)
	defer c.Close()

	err = c.Record(context.Background(), nil)
	assert.True(t, errors.HasCode(err, telemetry.ErrInvalidSnapshot))
}

func TestRecordCancelledContext(t *testing.T) {
	c, err := telemetry.NewService(testConfig(t), nil)
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = c.Record(ctx, snapshot(1))
	assert.True(t, errors.HasCode(err, telemetry.ErrOperationTimeout))
}

func TestSchemaMismatchCreatesBackup(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755))

	db, err := sql.Open("sqlite3", cfg.DBPath)
	require.NoError(t, err)
	_, err = db.Exec(`
        CREATE TABLE schema_versions (version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL);
        INSERT INTO schema_versions VALUES (99, datetime('now'));
    `)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	repo, err := telemetry.NewRepository(cfg, nil)
	require.NoError(t, err)
	defer repo.Close()

	backups, err := filepath.Glob(filepath.Join(cfg.BackupDir, "frames_v99_*.db"))
	require.NoError(t, err)
	assert.Len(t, backups, 1)

	counts, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, counts.Frames)
}

func TestSchemaVersionCurrent(t *testing.T) {
	cfg := testConfig(t)

	repo, err := telemetry.NewRepository(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	db, err := sql.Open("sqlite3", cfg.DBPath)
	require.NoError(t, err)
	defer db.Close()

	version, err := telemetry.GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, telemetry.SchemaVersion, version)

	_, err = os.Stat(cfg.BackupDir)
	assert.True(t, os.IsNotExist(err))
}
