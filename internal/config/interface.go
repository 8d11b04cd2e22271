package config

import (
	"context"

	"github.com/spf13/pflag"
)

// Provider exposes a loaded configuration. Values are immutable once
// returned; a reload produces a new Config.
type Provider interface {
	Config() *Config
}

// Watcher enables live configuration updates
type Watcher interface {
	// Watch starts watching the loaded config file. The callback is called
	// with a freshly validated Config whenever the file changes; invalid
	// revisions are dropped.
	Watch(ctx context.Context, callback func(*Config)) error
}

// Option defines a configuration option that can be passed to Load
type Option func(*options) error

// options holds internal configuration options
type options struct {
	configPath string
	envPrefix  string
	flags      *pflag.FlagSet
	searchDirs []string
}

// WithConfigFile specifies an explicit configuration file path
func WithConfigFile(path string) Option {
	return func(o *options) error {
		o.configPath = path
		return nil
	}
}

// WithEnvPrefix specifies a custom environment variable prefix
// Default is "HUDSTATS"
func WithEnvPrefix(prefix string) Option {
	return func(o *options) error {
		o.envPrefix = prefix
		return nil
	}
}

// WithFlags binds command line flags so they override file and environment
// values. Flag names use dashes where config keys use underscores.
func WithFlags(fs *pflag.FlagSet) Option {
	return func(o *options) error {
		o.flags = fs
		return nil
	}
}

// WithSearchDirs replaces the directories searched for hudstats.toml when no
// explicit file is given.
func WithSearchDirs(dirs ...string) Option {
	return func(o *options) error {
		o.searchDirs = dirs
		return nil
	}
}

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// IsValid returns whether the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (l LogLevel) String() string {
	return string(l)
}
