package hud

import (
	"codeberg.org/mutker/hudstats/internal/config"
	"codeberg.org/mutker/hudstats/internal/palette"
)

// Colors are the resolved widget colours.
type Colors struct {
	Text        palette.Color
	CPU         palette.Color
	GPU         palette.Color
	VRAM        palette.Color
	RAM         palette.Color
	Engine      palette.Color
	IO          palette.Color
	Battery     palette.Color
	Wine        palette.Color
	MediaPlayer palette.Color
}

// Options is the widget configuration derived from a Config.
type Options struct {
	enabled map[string]bool

	CPULoad palette.Scale
	GPULoad palette.Scale
	FPS     palette.Scale
	Colors  Colors

	CPUText string
	GPUText string
}

var white = palette.MustParseHex("FFFFFF")

// NewOptions resolves colours and switches. Outside the legacy layout every
// configured element token is switched on as well.
func NewOptions(cfg *config.Config) *Options {
	convert := func(hex string) palette.Color {
		c, err := palette.ParseHex(hex)
		if err != nil {
			c = white
		}
		if cfg.SRGB {
			c = c.SRGBToLinear()
		}
		return c
	}
	scale := func(bounds []float64, hexes []string) palette.Scale {
		colors := make([]palette.Color, 0, len(hexes))
		for _, hex := range hexes {
			colors = append(colors, convert(hex))
		}
		return palette.NewScale(bounds, colors)
	}

	opts := &Options{
		enabled: make(map[string]bool, len(cfg.Enable)),
		CPULoad: scale(cfg.CPULoadValue, cfg.CPULoadColor),
		GPULoad: scale(cfg.GPULoadValue, cfg.GPULoadColor),
		FPS:     scale(cfg.FPSValue, cfg.FPSColor),
		Colors: Colors{
			Text:        convert(cfg.TextColor),
			CPU:         convert(cfg.CPUColor),
			GPU:         convert(cfg.GPUColor),
			VRAM:        convert(cfg.VRAMColor),
			RAM:         convert(cfg.RAMColor),
			Engine:      convert(cfg.EngineColor),
			IO:          convert(cfg.IOColor),
			Battery:     convert(cfg.BatteryColor),
			Wine:        convert(cfg.WineColor),
			MediaPlayer: convert(cfg.MediaPlayerColor),
		},
		CPUText: cfg.CPUText,
		GPUText: cfg.GPUText,
	}

	for _, name := range cfg.Enable {
		opts.enabled[name] = true
	}
	if !cfg.UseLegacyLayout() {
		for _, el := range cfg.OrderedElements() {
			opts.enabled[el.Token] = true
		}
	}

	return opts
}

// Enabled reports whether a widget or sub-feature switch is on.
func (o *Options) Enabled(name string) bool {
	return o.enabled[name]
}

// Enable switches names on.
func (o *Options) Enable(names ...string) *Options {
	if o.enabled == nil {
		o.enabled = make(map[string]bool)
	}
	for _, name := range names {
		o.enabled[name] = true
	}
	return o
}
