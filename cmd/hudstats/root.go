package main

import (
	"sync"

	"codeberg.org/mutker/hudstats/internal/config"
	"codeberg.org/mutker/hudstats/internal/execcache"
	"codeberg.org/mutker/hudstats/internal/hud"
	"codeberg.org/mutker/hudstats/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	loader *config.Loader
	cfg    *config.Config
	log    logger.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "hudstats",
		Short: "Sample system telemetry and compose HUD frames",
		Long: `hudstats samples CPU, GPU, memory, IO and battery telemetry and turns an
ordered element list into the rows and graphs of a performance overlay.

  hudstats preview      # Draw the overlay in the terminal
  hudstats plan         # Show the resolved element plan
  hudstats battery      # Print the battery aggregate
  hudstats record       # Log frames to the telemetry database`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Flags())
		},
	}

	fs := cmd.PersistentFlags()
	fs.String("config", "", "path to hudstats.toml")
	fs.String("log-level", string(config.DefaultLogLevel), "log level (debug, info, warning, error)")
	fs.String("battery-root", config.DefaultPowerSupplyRoot, "power supply class directory")
	fs.Bool("battery-all-slots", false, "consider every battery for charging and full state")
	fs.Bool("exec-blocking", false, "run exec elements inline on the frame")

	cmd.AddCommand(newPreviewCommand(a))
	cmd.AddCommand(newRecordCommand(a))
	cmd.AddCommand(newPlanCommand(a))
	cmd.AddCommand(newBatteryCommand(a))

	return cmd
}

func (a *app) init(fs *pflag.FlagSet) error {
	path, _ := fs.GetString("config")

	loader, err := config.NewLoader(config.WithConfigFile(path), config.WithFlags(fs))
	if err != nil {
		return err
	}

	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	logger.Init(cfg.LogLevel == "debug", cfg.LogLevel == "info", logger.IsService())
	if level, ok := logger.ParseLevel(cfg.LogLevel); ok {
		logger.SetLogLevel(level)
	}
	logger.Debug().Str("file", loader.File()).Msg("Config loaded")

	a.loader = loader
	a.cfg = cfg
	a.log = logger.Default()

	return nil
}

func (a *app) registry(cfg *config.Config, exec *execcache.Cache) *hud.Registry {
	return hud.NewRegistry(a.log, exec, cfg.GraphDelimiters)
}

func (a *app) execCache(cfg *config.Config) *execcache.Cache {
	return execcache.New(
		execcache.ShellRunner{Shell: cfg.Exec.Shell},
		execcache.Options{Blocking: cfg.Exec.Blocking, Log: a.log},
	)
}

// reload swaps in the plan and options of cfg. The exec cache is rebuilt so
// changes to exec.blocking and exec.shell apply from the next frame.
func (a *app) reload(p *hud.Pipeline, caches *execCaches, cfg *config.Config) {
	exec := caches.add(a.execCache(cfg))
	p.SetPlan(a.registry(cfg, exec).FromConfig(cfg))
	p.SetOptions(hud.NewOptions(cfg))
}

// execCaches keeps every exec cache built during a run so shutdown can wait
// for their in-flight commands.
type execCaches struct {
	mu     sync.Mutex
	caches []*execcache.Cache
}

func (e *execCaches) add(c *execcache.Cache) *execcache.Cache {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.caches = append(e.caches, c)
	return c
}

func (e *execCaches) Wait() {
	e.mu.Lock()
	caches := append([]*execcache.Cache(nil), e.caches...)
	e.mu.Unlock()

	for _, c := range caches {
		c.Wait()
	}
}

// addLoopFlags registers the flags shared by the frame loop commands.
func addLoopFlags(fs *pflag.FlagSet) {
	fs.Duration("sampling-period", 0, "sensor sampling period (default from config)")
	fs.Int("frames", 0, "stop after this many frames (0 runs until interrupted)")
	fs.Bool("gpu", true, "sample the NVIDIA GPU through NVML")
	fs.String("telemetry-db", "", "frame log database path")
}
