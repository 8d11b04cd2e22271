package main

import (
	"codeberg.org/mutker/hudstats/internal/errors"
	"codeberg.org/mutker/hudstats/internal/hud"
	"codeberg.org/mutker/hudstats/internal/pid"
	"codeberg.org/mutker/hudstats/internal/telemetry"
	"github.com/spf13/cobra"
)

func newRecordCommand(a *app) *cobra.Command {
	var pidPath string

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Log frames to the telemetry database",
		Long: `Samples telemetry once per sampling period and writes each frame to the
sqlite frame log. Only one recorder runs at a time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.record(cmd, pidPath)
		},
	}

	fs := cmd.Flags()
	addLoopFlags(fs)
	fs.StringVar(&pidPath, "pid-file", "", "pid file guarding against concurrent recorders")

	return cmd
}

func (a *app) record(cmd *cobra.Command, pidPath string) error {
	errFactory := errors.New()
	cfg := a.cfg
	ctx := cmd.Context()

	guard := pid.New(pidPath)
	if err := guard.Write(); err != nil {
		return err
	}
	defer func() {
		if err := guard.Remove(); err != nil {
			a.log.Warn().Err(err).Msg("Failed to remove pid file")
		}
	}()

	tcfg := telemetry.FromConfig(cfg.Telemetry)
	tcfg.Enabled = true

	collector, err := telemetry.NewService(tcfg, a.log)
	if err != nil {
		return errFactory.Wrap(errors.ErrInitRecorder, err)
	}
	defer func() {
		if err := collector.Close(); err != nil {
			a.log.Error().Err(err).Msg("Failed to close frame log")
		}
	}()

	src, err := newSource(cfg, a.log)
	if err != nil {
		return err
	}
	defer src.Close()

	exec := a.execCache(cfg)
	defer exec.Wait()

	a.log.Info().
		Str("db", tcfg.DBPath).
		Dur("period", cfg.Preview.SamplingPeriod).
		Msg("Recording frames")

	pipeline := hud.NewPipeline(hud.Deps{
		Plan:    a.registry(cfg, exec).FromConfig(cfg),
		Options: hud.NewOptions(cfg),
		Log:     a.log,
	})

	loop := &frameLoop{
		source:    src,
		pipeline:  pipeline,
		collector: collector,
		interval:  cfg.Preview.SamplingPeriod,
		frames:    cfg.Preview.Frames,
		log:       a.log,
	}

	return loop.run(ctx)
}
