// Package config resolves runtime settings from defaults, TOML files,
// TODO_APP_* environment variables and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"todo-app/store"
	"todo-app/viewport"
)

const (
	AppName                   = "todo-app"
	DefaultKeyboardDurationMS = 250
	DefaultLogLevel           = "info"
	logFileName               = "todo-app.log"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the resolved configuration.
type Config struct {
	DataDir            string  `toml:"data_dir"`
	Storage            Storage `toml:"storage"`
	Platform           string  `toml:"platform"`
	KeyboardDurationMS int     `toml:"keyboard_duration_ms"`
	LogLevel           string  `toml:"log_level"`
	LogFile            string  `toml:"log_file"`
	NoColor            bool    `toml:"no_color"`
}

type Storage struct {
	Backend string `toml:"backend"`
	Key     string `toml:"key"`
}

// Overrides carries command-line values. Nil fields were not set.
type Overrides struct {
	DataDir          *string
	Backend          *string
	Key              *string
	Platform         *string
	KeyboardDuration *int
	LogLevel         *string
	LogFile          *string
	NoColor          *bool
}

func setDefaults(cfg *Config) {
	cfg.DataDir = defaultDataDir()
	cfg.Storage = Storage{Backend: store.BackendFile, Key: store.DefaultKey}
	cfg.Platform = viewport.PlatformTerminal.Name
	cfg.KeyboardDurationMS = DefaultKeyboardDurationMS
	cfg.LogLevel = DefaultLogLevel
}

// Default returns the configuration used when no file, env or flag is set.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

func applyOverrides(cfg *Config, o Overrides) {
	if o.DataDir != nil {
		cfg.DataDir = *o.DataDir
	}
	if o.Backend != nil {
		cfg.Storage.Backend = *o.Backend
	}
	if o.Key != nil {
		cfg.Storage.Key = *o.Key
	}
	if o.Platform != nil {
		cfg.Platform = *o.Platform
	}
	if o.KeyboardDuration != nil {
		cfg.KeyboardDurationMS = *o.KeyboardDuration
	}
	if o.LogLevel != nil {
		cfg.LogLevel = *o.LogLevel
	}
	if o.LogFile != nil {
		cfg.LogFile = *o.LogFile
	}
	if o.NoColor != nil {
		cfg.NoColor = *o.NoColor
	}
}

// Validate checks enumerated values and ranges.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case store.BackendFile, store.BackendSQLite:
	default:
		return fmt.Errorf("%w: storage.backend %q (want %s or %s)", ErrInvalidConfig, c.Storage.Backend, store.BackendFile, store.BackendSQLite)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return fmt.Errorf("%w: storage.key is empty", ErrInvalidConfig)
	}
	if _, ok := viewport.PlatformByName(c.Platform); !ok {
		return fmt.Errorf("%w: platform %q (want terminal, ios or android)", ErrInvalidConfig, c.Platform)
	}
	if c.KeyboardDurationMS < 0 {
		return fmt.Errorf("%w: keyboard_duration_ms must not be negative", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("%w: data_dir is empty", ErrInvalidConfig)
	}
	return nil
}

// ViewportPlatform returns the platform preset selected by Platform.
func (c *Config) ViewportPlatform() viewport.Platform {
	p, ok := viewport.PlatformByName(c.Platform)
	if !ok {
		return viewport.PlatformTerminal
	}
	return p
}

func (c *Config) KeyboardDuration() time.Duration {
	return time.Duration(c.KeyboardDurationMS) * time.Millisecond
}

func (c *Config) StoreOptions() store.Options {
	return store.Options{Backend: c.Storage.Backend, Dir: c.DataDir}
}
