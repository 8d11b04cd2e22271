package hud

import (
	"strings"

	"codeberg.org/mutker/hudstats/internal/config"
	"codeberg.org/mutker/hudstats/internal/execcache"
	"codeberg.org/mutker/hudstats/internal/logger"
	"codeberg.org/mutker/hudstats/internal/metrics"
)

// legacyOrder is the canonical layout used when no elements are configured.
var legacyOrder = []string{
	"time",
	"version",
	"gpu_stats",
	"cpu_stats",
	"core_load",
	"io_stats",
	"vram",
	"ram",
	"battery",
	"fps",
	"engine_version",
	"gpu_name",
	"vulkan_driver",
	"arch",
	"wine",
	"frame_timing",
	"gamemode",
	"vkbasalt",
	"show_fps_limit",
	"resolution",
	"media_player",
}

var widgets = map[string]widgetFunc{
	"version":        (*frame).version,
	"time":           (*frame).time,
	"gpu_stats":      (*frame).gpuStats,
	"cpu_stats":      (*frame).cpuStats,
	"core_load":      (*frame).coreLoad,
	"io_stats":       (*frame).ioStats,
	"vram":           (*frame).vram,
	"ram":            (*frame).ram,
	"procmem":        (*frame).procMem,
	"fps":            (*frame).fps,
	"engine_version": (*frame).engineVersion,
	"gpu_name":       (*frame).gpuName,
	"vulkan_driver":  (*frame).vulkanDriver,
	"arch":           (*frame).arch,
	"wine":           (*frame).wine,
	"frame_timing":   (*frame).frameTiming,
	"media_player":   (*frame).mediaPlayer,
	"resolution":     (*frame).resolution,
	"show_fps_limit": (*frame).showFPSLimit,
	"gamemode":       (*frame).gameMode,
	"vkbasalt":       (*frame).vkBasalt,
	"battery":        (*frame).battery,
}

// Registry builds plans from element lists.
type Registry struct {
	log        logger.Logger
	exec       *execcache.Cache
	delimiters string
}

// NewRegistry returns a Registry whose exec entries get slots from exec, or
// from a private shell-backed cache when exec is nil. Graph sub-tokens are
// split on any rune in delimiters.
func NewRegistry(log logger.Logger, exec *execcache.Cache, delimiters string) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	if exec == nil {
		exec = execcache.New(execcache.ShellRunner{}, execcache.Options{Log: log})
	}
	if delimiters == "" {
		delimiters = config.DefaultGraphDelimiters
	}

	return &Registry{log: log, exec: exec, delimiters: delimiters}
}

// Build maps elements onto entries in order. Unknown tokens and graph
// sub-tokens are dropped with a warning.
func (r *Registry) Build(elements []config.Element) *Plan {
	plan := &Plan{entries: make([]Entry, 0, len(elements))}

	for _, el := range elements {
		switch el.Token {
		case "graphs":
			plan.entries = append(plan.entries, r.graphs(el.Param)...)
		case "exec":
			plan.entries = append(plan.entries, ExecEntry{slot: r.exec.NewSlot(el.Param)})
		case "custom_text":
			plan.entries = append(plan.entries, TextEntry{text: el.Param})
		case "custom_text_center":
			plan.entries = append(plan.entries, TextEntry{text: el.Param, centered: true})
		default:
			fn, ok := widgets[el.Token]
			if !ok {
				r.log.Warn().Str("token", el.Token).Msg("Unrecognized element")
				continue
			}
			plan.entries = append(plan.entries, WidgetEntry{token: el.Token, param: el.Param, fn: fn})
		}
	}

	r.log.Debug().Int("entries", len(plan.entries)).Msg("Element plan built")

	return plan
}

func (r *Registry) graphs(param string) []Entry {
	names := strings.FieldsFunc(param, func(c rune) bool {
		return strings.ContainsRune(r.delimiters, c)
	})

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		kind, ok := metrics.KindForGraph(name)
		if !ok {
			r.log.Warn().Str("graph", name).Msg("Unrecognized graph type")
			continue
		}
		entries = append(entries, GraphEntry{name: name, kind: kind})
	}

	return entries
}

// Legacy returns the fixed canonical plan.
func (r *Registry) Legacy() *Plan {
	plan := &Plan{entries: make([]Entry, 0, len(legacyOrder)), legacy: true}
	for _, token := range legacyOrder {
		plan.entries = append(plan.entries, WidgetEntry{token: token, fn: widgets[token]})
	}

	return plan
}

// FromConfig picks the legacy plan or builds one from cfg's elements.
func (r *Registry) FromConfig(cfg *config.Config) *Plan {
	if cfg.UseLegacyLayout() {
		return r.Legacy()
	}
	return r.Build(cfg.OrderedElements())
}
