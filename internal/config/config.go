package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"codeberg.org/mutker/hudstats/internal/errors"
	"codeberg.org/mutker/hudstats/internal/palette"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel        = LogLevelWarning
	DefaultEnvPrefix       = "HUDSTATS"
	DefaultGraphDelimiters = ",+"
	DefaultPowerSupplyRoot = "/sys/class/power_supply"

	configName = "hudstats"
	configType = "toml"
)

type Config struct {
	LogLevel        string   `mapstructure:"log_level"`
	LegacyLayout    bool     `mapstructure:"legacy_layout"`
	Elements        []string `mapstructure:"elements"`
	Enable          []string `mapstructure:"enable"`
	GraphDelimiters string   `mapstructure:"graph_delimiters"`

	CPULoadValue []float64 `mapstructure:"cpu_load_value"`
	GPULoadValue []float64 `mapstructure:"gpu_load_value"`
	FPSValue     []float64 `mapstructure:"fps_value"`
	CPULoadColor []string  `mapstructure:"cpu_load_color"`
	GPULoadColor []string  `mapstructure:"gpu_load_color"`
	FPSColor     []string  `mapstructure:"fps_color"`

	TextColor        string `mapstructure:"text_color"`
	CPUColor         string `mapstructure:"cpu_color"`
	GPUColor         string `mapstructure:"gpu_color"`
	VRAMColor        string `mapstructure:"vram_color"`
	RAMColor         string `mapstructure:"ram_color"`
	EngineColor      string `mapstructure:"engine_color"`
	IOColor          string `mapstructure:"io_color"`
	BatteryColor     string `mapstructure:"battery_color"`
	WineColor        string `mapstructure:"wine_color"`
	MediaPlayerColor string `mapstructure:"media_player_color"`
	SRGB             bool   `mapstructure:"srgb"`

	CPUText    string `mapstructure:"cpu_text"`
	GPUText    string `mapstructure:"gpu_text"`
	TimeFormat string `mapstructure:"time_format"`

	Battery   BatteryConfig   `mapstructure:"battery"`
	Exec      ExecConfig      `mapstructure:"exec"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Preview   PreviewConfig   `mapstructure:"preview"`
}

type BatteryConfig struct {
	Root     string `mapstructure:"root"`
	AllSlots bool   `mapstructure:"all_slots"`
}

type ExecConfig struct {
	Blocking bool   `mapstructure:"blocking"`
	Shell    string `mapstructure:"shell"`
}

type TelemetryConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	DBPath       string        `mapstructure:"db_path"`
	BatchSize    int           `mapstructure:"batch_size"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	BackupDir    string        `mapstructure:"backup_dir"`
}

type PreviewConfig struct {
	FPS            int           `mapstructure:"fps"`
	SamplingPeriod time.Duration `mapstructure:"sampling_period"`
	Frames         int           `mapstructure:"frames"`
	GPU            bool          `mapstructure:"gpu"`
}

// Element is one ordered (token, parameter) pair from the elements list.
type Element struct {
	Token string
	Param string
}

// ParseElement splits "token=param" (or "token:param") at the first
// separator. A bare token has an empty parameter.
func ParseElement(raw string) (Element, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Element{}, false
	}

	token, param := raw, ""
	if i := strings.IndexAny(raw, "=:"); i >= 0 {
		token, param = raw[:i], raw[i+1:]
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return Element{}, false
	}

	return Element{Token: token, Param: strings.TrimSpace(param)}, true
}

// OrderedElements parses Elements, skipping blank entries.
func (c *Config) OrderedElements() []Element {
	elements := make([]Element, 0, len(c.Elements))
	for _, raw := range c.Elements {
		if el, ok := ParseElement(raw); ok {
			elements = append(elements, el)
		}
	}

	return elements
}

// UseLegacyLayout reports whether the fixed canonical ordering applies.
func (c *Config) UseLegacyLayout() bool {
	return c.LegacyLayout || len(c.OrderedElements()) == 0
}

// flagKeys maps flag names onto nested config keys. Flags not listed bind to
// their name with dashes replaced by underscores.
var flagKeys = map[string]string{
	"battery-root":      "battery.root",
	"battery-all-slots": "battery.all_slots",
	"exec-blocking":     "exec.blocking",
	"telemetry":         "telemetry.enabled",
	"telemetry-db":      "telemetry.db_path",
	"fps":               "preview.fps",
	"frames":            "preview.frames",
	"sampling-period":   "preview.sampling_period",
	"gpu":               "preview.gpu",
}

// Loader reads configuration from file, environment and flags.
type Loader struct {
	v    *viper.Viper
	opts options
	mu   sync.RWMutex
	cfg  *Config
}

// NewLoader prepares a Loader; nothing is read until Load is called.
func NewLoader(opts ...Option) (*Loader, error) {
	errFactory := errors.New()

	o := options{
		envPrefix:  DefaultEnvPrefix,
		searchDirs: defaultSearchDirs(),
	}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidArgument, err)
		}
	}

	return &Loader{v: viper.New(), opts: o}, nil
}

// Load is a shorthand for NewLoader followed by Loader.Load.
func Load(opts ...Option) (*Config, error) {
	l, err := NewLoader(opts...)
	if err != nil {
		return nil, err
	}

	return l.Load()
}

// Load reads all sources and validates the result.
func (l *Loader) Load() (*Config, error) {
	errFactory := errors.New()
	v := l.v

	setDefaults(v)

	v.SetEnvPrefix(l.opts.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if l.opts.flags != nil {
		if err := bindFlags(v, l.opts.flags); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	path := l.opts.configPath
	if path == "" {
		path = os.Getenv(l.opts.envPrefix + "_CONFIG")
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType(configType)
		if err := v.ReadInConfig(); err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		for _, dir := range l.opts.searchDirs {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, errFactory.Wrap(errors.ErrReadConfig, err)
			}
		}
	}

	cfg, err := l.decode()
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cfg = cfg
	l.mu.Unlock()

	return cfg, nil
}

// Config returns the most recently loaded configuration.
func (l *Loader) Config() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg
}

// File returns the config file in use, or "" when running on defaults.
func (l *Loader) File() string {
	return l.v.ConfigFileUsed()
}

func (l *Loader) decode() (*Config, error) {
	errFactory := errors.New()

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "warn" {
		cfg.LogLevel = LogLevelWarning.String()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges and colour syntax.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	thresholds := map[string][]float64{
		"cpu_load_value": c.CPULoadValue,
		"gpu_load_value": c.GPULoadValue,
		"fps_value":      c.FPSValue,
	}
	for key, pair := range thresholds {
		if len(pair) != 2 {
			return errFactory.WithData(errors.ErrInvalidThreshold, key)
		}
	}

	scales := map[string][]string{
		"cpu_load_color": c.CPULoadColor,
		"gpu_load_color": c.GPULoadColor,
		"fps_color":      c.FPSColor,
	}
	for key, colors := range scales {
		if len(colors) != 3 {
			return errFactory.WithData(errors.ErrInvalidColor, key)
		}
		for _, hex := range colors {
			if _, err := palette.ParseHex(hex); err != nil {
				return errFactory.WithData(errors.ErrInvalidColor, key+"="+hex)
			}
		}
	}

	for key, hex := range c.widgetColors() {
		if _, err := palette.ParseHex(hex); err != nil {
			return errFactory.WithData(errors.ErrInvalidColor, key+"="+hex)
		}
	}

	if c.Preview.FPS <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, "preview.fps")
	}
	if c.Preview.SamplingPeriod <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, "preview.sampling_period")
	}

	if c.Exec.Shell == "" {
		return errFactory.WithData(errors.ErrInvalidConfig, "exec.shell")
	}

	if c.Telemetry.Enabled && c.Telemetry.DBPath == "" {
		return errFactory.WithData(errors.ErrInvalidConfig, "telemetry.db_path")
	}

	return nil
}

func (c *Config) widgetColors() map[string]string {
	return map[string]string{
		"text_color":         c.TextColor,
		"cpu_color":          c.CPUColor,
		"gpu_color":          c.GPUColor,
		"vram_color":         c.VRAMColor,
		"ram_color":          c.RAMColor,
		"engine_color":       c.EngineColor,
		"io_color":           c.IOColor,
		"battery_color":      c.BatteryColor,
		"wine_color":         c.WineColor,
		"media_player_color": c.MediaPlayerColor,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", DefaultLogLevel.String())
	v.SetDefault("legacy_layout", false)
	v.SetDefault("elements", []string{})
	v.SetDefault("enable", []string{"cpu_stats", "gpu_stats", "fps", "frame_timing"})
	v.SetDefault("graph_delimiters", DefaultGraphDelimiters)

	v.SetDefault("cpu_load_value", []float64{60, 90})
	v.SetDefault("gpu_load_value", []float64{60, 90})
	v.SetDefault("fps_value", []float64{30, 60})
	v.SetDefault("cpu_load_color", []string{"39F900", "FDFD09", "B22222"})
	v.SetDefault("gpu_load_color", []string{"39F900", "FDFD09", "B22222"})
	v.SetDefault("fps_color", []string{"B22222", "FDFD09", "39F900"})

	v.SetDefault("text_color", "FFFFFF")
	v.SetDefault("cpu_color", "2E97CB")
	v.SetDefault("gpu_color", "2E9762")
	v.SetDefault("vram_color", "AD64C1")
	v.SetDefault("ram_color", "C26693")
	v.SetDefault("engine_color", "EB5B5B")
	v.SetDefault("io_color", "A491D3")
	v.SetDefault("battery_color", "FF9078")
	v.SetDefault("wine_color", "EB5B5B")
	v.SetDefault("media_player_color", "FFFFFF")
	v.SetDefault("srgb", false)

	v.SetDefault("cpu_text", "CPU")
	v.SetDefault("gpu_text", "GPU")
	v.SetDefault("time_format", "15:04:05")

	v.SetDefault("battery.root", DefaultPowerSupplyRoot)
	v.SetDefault("battery.all_slots", false)

	v.SetDefault("exec.blocking", false)
	v.SetDefault("exec.shell", "/bin/sh")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.db_path", filepath.Join(stateDir(), "frames.db"))
	v.SetDefault("telemetry.batch_size", 60)
	v.SetDefault("telemetry.batch_timeout", 5*time.Second)
	v.SetDefault("telemetry.backup_dir", filepath.Join(stateDir(), "backups"))

	v.SetDefault("preview.fps", 10)
	v.SetDefault("preview.sampling_period", 500*time.Millisecond)
	v.SetDefault("preview.frames", 0)
	v.SetDefault("preview.gpu", true)
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if bindErr != nil || f.Name == "config" {
			return
		}
		key, ok := flagKeys[f.Name]
		if !ok {
			key = strings.ReplaceAll(f.Name, "-", "_")
		}
		bindErr = v.BindPFlag(key, f)
	})

	return bindErr
}

func defaultSearchDirs() []string {
	dirs := make([]string, 0, 2)
	if base, err := os.UserConfigDir(); err == nil && base != "" {
		dirs = append(dirs, filepath.Join(base, configName))
	}

	return append(dirs, "/etc")
}

func stateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, configName)
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".local", "state", configName)
	}

	return filepath.Join(os.TempDir(), configName)
}
