package main

import (
	"fmt"
	"io"
	"time"

	"codeberg.org/mutker/hudstats/internal/config"
	"codeberg.org/mutker/hudstats/internal/errors"
	"codeberg.org/mutker/hudstats/internal/hud"
	"codeberg.org/mutker/hudstats/internal/metrics"
	"codeberg.org/mutker/hudstats/internal/render"
	"codeberg.org/mutker/hudstats/internal/telemetry"
	"github.com/spf13/cobra"
)

const clearScreen = "\x1b[H\x1b[2J"

func newPreviewCommand(a *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Draw the overlay in the terminal",
		Long: `Samples telemetry and renders the configured overlay in the terminal until
interrupted. Edits to the config file are applied while running.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.preview(cmd, plain)
		},
	}

	fs := cmd.Flags()
	addLoopFlags(fs)
	fs.Int("fps", 0, "preview frame rate (default from config)")
	fs.Bool("telemetry", false, "also log frames to the telemetry database")
	fs.BoolVar(&plain, "plain", false, "do not clear the screen between frames")

	return cmd
}

func (a *app) preview(cmd *cobra.Command, plain bool) error {
	cfg := a.cfg
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	src, err := newSource(cfg, a.log)
	if err != nil {
		return err
	}
	defer src.Close()

	collector, err := telemetry.NewService(telemetry.FromConfig(cfg.Telemetry), a.log)
	if err != nil {
		return errors.New().Wrap(errors.ErrInitRecorder, err)
	}
	defer collector.Close()

	caches := &execCaches{}
	defer caches.Wait()

	pipeline := hud.NewPipeline(hud.Deps{Log: a.log})
	a.reload(pipeline, caches, cfg)

	if a.loader.File() != "" {
		err := a.loader.Watch(ctx, func(next *config.Config) {
			a.reload(pipeline, caches, next)
			a.log.Info().Str("file", a.loader.File()).Msg("Config reloaded")
		})
		if err != nil {
			a.log.Warn().Err(err).Msg("Config reload disabled")
		}
	}

	term := render.NewTerminal(out, render.DefaultWidth)
	loop := &frameLoop{
		source:    src,
		pipeline:  pipeline,
		collector: collector,
		interval:  frameInterval(cfg.Preview.FPS),
		frames:    cfg.Preview.Frames,
		log:       a.log,
		onFrame: func(_ *metrics.Snapshot, instructions []hud.Instruction) error {
			return draw(out, term, instructions, plain)
		},
	}

	return loop.run(ctx)
}

func frameInterval(fps int) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Second / time.Duration(fps)
}

func draw(w io.Writer, term *render.Terminal, instructions []hud.Instruction, plain bool) error {
	prefix := clearScreen
	if plain {
		prefix = ""
	}
	_, err := fmt.Fprintln(w, prefix+term.Render(instructions))
	return err
}
