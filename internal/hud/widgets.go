package hud

import (
	"math"
	"strconv"

	"codeberg.org/mutker/hudstats/internal/metrics"
	"codeberg.org/mutker/hudstats/internal/palette"
)

// Battery glyphs from the Fork Awesome icon font.
const (
	IconBatteryQuarter       = "\uf243"
	IconBatteryHalf          = "\uf242"
	IconBatteryThreeQuarters = "\uf241"
	IconBatteryFull          = "\uf240"
)

var graphTitles = map[metrics.Kind]string{
	metrics.CPULoad:      "CPU Load",
	metrics.GPULoad:      "GPU Load",
	metrics.CPUTemp:      "CPU Temp",
	metrics.GPUTemp:      "GPU Temp",
	metrics.GPUCoreClock: "GPU Core Clock",
	metrics.GPUMemClock:  "GPU Mem Clock",
	metrics.VRAM:         "VRAM",
	metrics.RAM:          "RAM",
}

func (f *frame) on(name string) bool {
	return f.opts.Enabled(name)
}

func (f *frame) value(k metrics.Kind) float64 {
	return f.snap.Value(k)
}

func (f *frame) text() palette.Color {
	return f.opts.Colors.Text
}

func (f *frame) version() {
	if !f.on("version") {
		return
	}
	f.line(Text(f.snap.Info().Version), f.text())
}

func (f *frame) time() {
	if !f.on("time") {
		return
	}
	f.line(Text(f.snap.Info().Time), white)
}

func (f *frame) gpuStats() {
	if !f.on("gpu_stats") {
		return
	}

	label := f.opts.GPUText
	if label == "" {
		label = "GPU"
	}

	load := f.value(metrics.GPULoad)
	color := f.text()
	if f.on("gpu_load_change") {
		color = f.opts.GPULoad.Pick(load)
	}
	f.row(label, f.opts.Colors.GPU, Number(load, "%.0f"), "%", color)

	fields := 1
	for _, name := range []string{"gpu_temp", "gpu_core_clock", "gpu_power"} {
		if f.on(name) {
			fields++
		}
	}

	if f.on("gpu_temp") {
		f.next(Number(f.value(metrics.GPUTemp), "%.0f"), "°C", f.text())
	}
	if fields >= 3 {
		f.blankRow()
	}
	if f.on("gpu_core_clock") {
		f.next(Number(f.value(metrics.GPUCoreClock), "%.0f"), "MHz", f.text())
	}
	if f.on("gpu_power") {
		f.next(Number(f.value(metrics.GPUPower), "%.0f"), "W", f.text())
	}
}

func (f *frame) vram() {
	if !f.on("vram") {
		return
	}

	f.row("VRAM", f.opts.Colors.VRAM, Number(f.value(metrics.VRAM), "%.1f"), "GiB", f.text())
	if f.on("gpu_mem_clock") {
		f.next(Number(f.value(metrics.GPUMemClock), "%.0f"), "MHz", f.text())
	}
}

func (f *frame) cpuStats() {
	if !f.on("cpu_stats") {
		return
	}

	label := f.opts.CPUText
	if label == "" {
		label = "CPU"
	}

	load := math.Trunc(f.value(metrics.CPULoad))
	color := f.text()
	if f.on("cpu_load_change") {
		color = f.opts.CPULoad.Pick(load)
	}
	f.row(label, f.opts.Colors.CPU, Number(load, "%.0f"), "%", color)

	if f.on("cpu_temp") {
		f.next(Number(f.value(metrics.CPUTemp), "%.0f"), "°C", f.text())
	}
	if f.on("cpu_mhz") || f.on("cpu_power") {
		f.blankRow()
	}
	if f.on("cpu_mhz") {
		f.next(Number(f.value(metrics.CPUMHz), "%.0f"), "MHz", f.text())
	}
	if f.on("cpu_power") {
		f.next(Number(f.value(metrics.CPUPower), "%.0f"), "W", f.text())
	}
}

func (f *frame) coreLoad() {
	if !f.on("core_load") {
		return
	}

	clocks := f.snap.CoreClocks()
	for i, load := range f.snap.Cores() {
		load = math.Trunc(load)
		color := f.text()
		if f.on("core_load_change") {
			color = f.opts.CPULoad.Pick(load)
		}

		f.add(Instruction{
			NewRow:     true,
			Label:      "CPU" + strconv.Itoa(i),
			LabelColor: f.opts.Colors.CPU,
			Value:      Number(load, "%.0f"),
			Unit:       "%",
			Color:      color,
		})
		if i < len(clocks) {
			f.next(Number(clocks[i], "%.0f"), "MHz", f.text())
		}
	}
}

func (f *frame) ioStats() {
	read, write := f.on("io_read"), f.on("io_write")
	if !read && !write {
		return
	}

	label := "IO RW"
	switch {
	case read && !write:
		label = "IO RD"
	case write && !read:
		label = "IO WR"
	}
	f.row(label, f.opts.Colors.IO, Text(""), "", f.text())

	if read {
		f.next(throughput(f.value(metrics.IORead)), "MiB/s", f.text())
	}
	if write {
		f.next(throughput(f.value(metrics.IOWrite)), "MiB/s", f.text())
	}
}

func throughput(v float64) Value {
	if v < 100 {
		return Number(v, "%.1f")
	}
	return Number(v, "%.0f")
}

func (f *frame) ram() {
	if !f.on("ram") {
		return
	}

	f.row("RAM", f.opts.Colors.RAM, Number(f.value(metrics.RAM), "%.1f"), "GiB", f.text())
	if f.on("swap") {
		f.next(Number(f.value(metrics.Swap), "%.1f"), "GiB", f.text())
	}
}

func (f *frame) procMem() {
	if !f.on("procmem") {
		return
	}

	v, unit := FormatUnits(f.value(metrics.ProcResident))
	f.row("PMEM", f.opts.Colors.RAM, Number(v, "%.1f"), unit, f.text())

	if f.on("procmem_shared") {
		v, unit = FormatUnits(f.value(metrics.ProcShared))
		f.next(Number(v, "%.1f"), unit, f.text())
		f.blankRow()
	}
	if f.on("procmem_virt") {
		v, unit = FormatUnits(f.value(metrics.ProcVirt))
		f.next(Number(v, "%.1f"), unit, f.text())
	}
}

var byteUnits = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB", "ZiB"}

// FormatUnits scales a byte count to the largest binary unit keeping the
// value at or below 1023.
func FormatUnits(bytes float64) (float64, string) {
	u := 0
	for bytes > 1023 && u < len(byteUnits)-1 {
		bytes /= 1024
		u++
	}
	return bytes, byteUnits[u]
}

func (f *frame) engineName() string {
	if name := f.snap.Info().Engine; name != "" {
		return name
	}
	return "FPS"
}

func (f *frame) fps() {
	if !f.on("fps") {
		if f.on("engine_version") {
			f.row(f.engineName(), f.opts.Colors.Engine, Text(""), "", f.text())
		}
		return
	}

	fps := f.value(metrics.FPS)
	color := f.text()
	if f.on("fps_color_change") {
		color = f.opts.FPS.Pick(math.Trunc(fps))
	}
	f.row(f.engineName(), f.opts.Colors.Engine, Number(fps, "%.0f"), "FPS", color)

	if f.on("frametime") {
		f.next(Number(frameTime(fps), "%.1f"), "ms", f.text())
	}
}

func frameTime(fps float64) float64 {
	if fps <= 0 || math.IsNaN(fps) {
		return 0
	}
	return 1000 / fps
}

func (f *frame) engineVersion() {
	if !f.on("engine_version") {
		return
	}
	f.line(Text(f.snap.Info().EngineVersion), f.opts.Colors.Engine)
}

func (f *frame) gpuName() {
	name := f.snap.Info().GPUName
	if !f.on("gpu_name") || name == "" {
		return
	}
	f.line(Text(name), f.opts.Colors.Engine)
}

func (f *frame) vulkanDriver() {
	driver := f.snap.Info().Driver
	if !f.on("vulkan_driver") || driver == "" {
		return
	}
	f.line(Text(driver), f.opts.Colors.Engine)
}

func (f *frame) arch() {
	if !f.on("arch") {
		return
	}
	f.line(Text(f.snap.Info().Arch), f.opts.Colors.Engine)
}

func (f *frame) wine() {
	version := f.snap.Info().Wine
	if !f.on("wine") || version == "" {
		return
	}
	f.line(Text(version), f.opts.Colors.Wine)
}

func (f *frame) frameTiming() {
	if !f.on("frame_timing") {
		return
	}

	ft := f.value(metrics.FrameTime)
	if !f.snap.Has(metrics.FrameTime) {
		ft = frameTime(f.value(metrics.FPS))
	}
	f.row("Frametime", f.opts.Colors.Engine, Number(ft, "%.1f"), "ms", f.text())

	lo, hi := f.history.Bounds(metrics.FrameTime, f.snap)
	f.add(Instruction{
		NewRow: true,
		Graph: &Graph{
			Values:    f.window(metrics.FrameTime),
			Min:       lo,
			Max:       hi,
			Histogram: f.on("histogram"),
		},
	})
}

func (f *frame) mediaPlayer() {
	if !f.on("media_player") || f.media == nil {
		return
	}

	info := f.media.Snapshot()
	if !info.Valid {
		return
	}

	color := f.opts.Colors.MediaPlayer
	f.line(Text(info.Title), color)
	if info.Artist != "" {
		f.line(Text(info.Artist), color)
	}
	if info.Album != "" {
		f.line(Text(info.Album), color)
	}
	if !info.Playing {
		f.line(Text("(paused)"), color)
	}
}

func (f *frame) resolution() {
	if !f.on("resolution") {
		return
	}
	f.row("Resolution", f.opts.Colors.Engine, Text(f.snap.Info().Resolution), "", f.text())
}

func (f *frame) showFPSLimit() {
	if !f.on("show_fps_limit") {
		return
	}
	f.row("FPS limit", f.opts.Colors.Engine, Number(f.value(metrics.FPSLimit), "%.0f"), "", f.text())
}

func (f *frame) gameMode() {
	if !f.on("gamemode") {
		return
	}
	f.row("GAMEMODE", f.opts.Colors.Engine, Text(onOff(f.snap.Info().GameMode)), "", f.text())
}

func (f *frame) vkBasalt() {
	if !f.on("vkbasalt") {
		return
	}
	f.row("VKBASALT", f.opts.Colors.Engine, Text(onOff(f.snap.Info().VkBasalt)), "", f.text())
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

func (f *frame) battery() {
	agg := f.snap.Battery()
	if agg.Count == 0 || !f.on("battery") {
		return
	}

	if f.on("battery_icon") {
		f.row("BATT", f.opts.Colors.Battery, Text(BatteryIcon(agg.Percent)), "", f.text())
	} else {
		f.row("BATT", f.opts.Colors.Battery, Number(agg.Percent, "%.0f"), "%", f.text())
	}

	if agg.Watt != 0 {
		f.next(Number(agg.Watt, "%.1f"), "W", f.text())
	}
}

// BatteryIcon picks the glyph for a charge percentage. Values outside 0..100
// have no glyph.
func BatteryIcon(percent float64) string {
	switch p := int(percent); {
	case p < 0:
		return ""
	case p <= 33:
		return IconBatteryQuarter
	case p <= 66:
		return IconBatteryHalf
	case p <= 97:
		return IconBatteryThreeQuarters
	case p <= 100:
		return IconBatteryFull
	default:
		return ""
	}
}

func (f *frame) graph(e GraphEntry) {
	f.row(graphTitles[e.kind], f.opts.Colors.Engine, Text(""), "", f.text())

	lo, hi := f.history.Bounds(e.kind, f.snap)
	f.add(Instruction{
		NewRow: true,
		Graph: &Graph{
			Title:     graphTitles[e.kind],
			Values:    f.window(e.kind),
			Min:       lo,
			Max:       hi,
			Histogram: f.on("histogram"),
		},
	})
}

// window returns the history for k left-padded with zeros to full capacity,
// so charts always span the same width.
func (f *frame) window(k metrics.Kind) []float64 {
	series := f.history.Series(k)
	capacity := f.history.Capacity()
	if len(series) >= capacity {
		return series
	}

	values := make([]float64, capacity-len(series), capacity)
	return append(values, series...)
}

func (f *frame) exec(e ExecEntry) {
	f.next(Text(e.slot.Output()), "", f.text())
}

func (f *frame) customText(e TextEntry) {
	f.add(Instruction{
		NewRow:   true,
		Value:    Text(e.text),
		Color:    f.text(),
		Centered: e.centered,
	})
}
