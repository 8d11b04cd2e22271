package main

import (
	"context"
	"testing"

	"codeberg.org/mutker/hudstats/internal/config"
	"codeberg.org/mutker/hudstats/internal/hud"
	"codeberg.org/mutker/hudstats/internal/logger"
	"codeberg.org/mutker/hudstats/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execOutput(t *testing.T, p *hud.Pipeline) string {
	t.Helper()

	for _, in := range p.Compose(context.Background(), metrics.NewBuilder().Build()) {
		if in.Element == "exec" {
			return in.Value.String()
		}
	}
	t.Fatal("no exec instruction composed")
	return ""
}

func TestReloadRebuildsExecCache(t *testing.T) {
	cfg, err := config.Load(config.WithSearchDirs(t.TempDir()), config.WithEnvPrefix("HUDSTATS_TEST"))
	require.NoError(t, err)
	cfg.Elements = []string{"exec=echo hi"}

	a := &app{log: logger.Nop()}
	caches := &execCaches{}
	defer caches.Wait()

	p := hud.NewPipeline(hud.Deps{Log: a.log})
	a.reload(p, caches, cfg)
	require.Len(t, caches.caches, 1)
	assert.False(t, caches.caches[0].Blocking())

	blocking := *cfg
	blocking.Exec.Blocking = true
	a.reload(p, caches, &blocking)
	require.Len(t, caches.caches, 2)
	assert.True(t, caches.caches[1].Blocking())
	assert.Equal(t, "hi", execOutput(t, p))

	broken := blocking
	broken.Exec.Shell = "/nonexistent/shell"
	a.reload(p, caches, &broken)
	assert.Empty(t, execOutput(t, p))
}
