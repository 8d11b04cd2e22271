package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/hudstats/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func run(t *testing.T, config string, args ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "hudstats.toml")
	writeFile(t, path, config)

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--config", path))

	require.NoError(t, cmd.ExecuteContext(context.Background()), out.String())
	return out.String()
}

func TestPlanCommand(t *testing.T) {
	out := run(t, `elements = ["fps", "graphs=cpu_load+gpu_load", "bogus"]`, "plan")

	assert.Contains(t, out, "layout: ordered")
	assert.Contains(t, out, "fps")
	assert.Contains(t, out, "cpu_load")
	assert.Contains(t, out, "gpu_load")
	assert.NotContains(t, out, "bogus")
}

func TestPlanCommandLegacy(t *testing.T) {
	out := run(t, `legacy_layout = true`, "plan")

	assert.Contains(t, out, "layout: legacy")
	assert.Contains(t, out, "cpu_stats")
}

func TestBatteryCommand(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "BAT0", "charge_now"), "2500000\n")
	writeFile(t, filepath.Join(root, "BAT0", "charge_full"), "5000000\n")
	writeFile(t, filepath.Join(root, "BAT0", "current_now"), "1000000\n")
	writeFile(t, filepath.Join(root, "BAT0", "voltage_now"), "12000000\n")
	writeFile(t, filepath.Join(root, "BAT0", "status"), "Discharging\n")
	writeFile(t, filepath.Join(root, "AC", "online"), "0\n")

	out := run(t, "", "battery", "--battery-root", root)

	assert.Contains(t, out, "batteries: 1")
	assert.Contains(t, out, "percent:   50%")
	assert.Contains(t, out, "power:     12.0 W")
	assert.Contains(t, out, "state:     discharging")
}

func TestBatteryCommandNoBatteries(t *testing.T) {
	out := run(t, "", "battery", "--battery-root", t.TempDir())

	assert.Contains(t, out, "no batteries found")
}

func TestRecordCommand(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "frames.db")
	pidFile := filepath.Join(dir, "record.pid")

	run(t, "", "record",
		"--frames", "3",
		"--sampling-period", "10ms",
		"--gpu=false",
		"--telemetry-db", db,
		"--pid-file", pidFile,
	)

	_, err := os.Stat(pidFile)
	assert.True(t, os.IsNotExist(err))

	repo, err := telemetry.NewRepository(telemetry.Config{DBPath: db, BatchSize: 1}, nil)
	require.NoError(t, err)
	defer repo.Close()

	counts, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, counts.Frames)
}

func TestPreviewCommand(t *testing.T) {
	out := run(t, "", "preview", "--frames", "2", "--fps", "50", "--gpu=false", "--plain")

	assert.Contains(t, out, "CPU")
	assert.Contains(t, out, "╭")
}

func TestFrameInterval(t *testing.T) {
	assert.Zero(t, frameInterval(0))
	assert.Equal(t, int64(100_000_000), frameInterval(10).Nanoseconds())
}
