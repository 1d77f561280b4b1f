// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Channel  ChannelConfig  `mapstructure:"channel" yaml:"channel"`
	Snapshot SnapshotConfig `mapstructure:"snapshot" yaml:"snapshot"`
}

// LoggerConfig controls the zap logger setup.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color names for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// ChannelConfig describes how to reach the execution channel and how long a
// single submission attempt may run per snapshot mode.
type ChannelConfig struct {
	// DevToolsURL is the websocket (or http) endpoint of the running browser's
	// remote debugging interface.
	DevToolsURL string `mapstructure:"devtools_url" yaml:"devtools_url"`
	// Strategy selects the resilience ladder behavior: "robust" or "legacy".
	Strategy string `mapstructure:"strategy" yaml:"strategy"`
	// OutlineTimeout bounds one channel attempt in outline mode.
	OutlineTimeout time.Duration `mapstructure:"outline_timeout" yaml:"outline_timeout"`
	// DomLiteTimeout bounds one channel attempt in dom-lite mode.
	DomLiteTimeout time.Duration `mapstructure:"dom_lite_timeout" yaml:"dom_lite_timeout"`
}

// SnapshotConfig carries the capture defaults applied when flags are absent.
type SnapshotConfig struct {
	Mode        string `mapstructure:"mode" yaml:"mode"`
	VisibleOnly bool   `mapstructure:"visible_only" yaml:"visible_only"`
	MaxDepth    int    `mapstructure:"max_depth" yaml:"max_depth"`
}

// setDefaults registers every configuration default on the viper instance.
func setDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "pagelens")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Channel --
	v.SetDefault("channel.devtools_url", "http://127.0.0.1:9222")
	v.SetDefault("channel.strategy", "robust")
	v.SetDefault("channel.outline_timeout", "15s")
	v.SetDefault("channel.dom_lite_timeout", "20s")

	// -- Snapshot --
	v.SetDefault("snapshot.mode", "outline")
	v.SetDefault("snapshot.visible_only", false)
	v.SetDefault("snapshot.max_depth", 10)
}

// Load reads the configuration from the given file (optional), the
// environment (PAGELENS_ prefix) and the registered defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("PAGELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults/env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the rest of the program cannot honor.
func (c *Config) Validate() error {
	switch c.Channel.Strategy {
	case "robust", "legacy":
	default:
		return fmt.Errorf("invalid channel.strategy %q (want robust or legacy)", c.Channel.Strategy)
	}
	switch c.Snapshot.Mode {
	case "outline", "dom-lite":
	default:
		return fmt.Errorf("invalid snapshot.mode %q (want outline or dom-lite)", c.Snapshot.Mode)
	}
	if c.Channel.OutlineTimeout <= 0 || c.Channel.DomLiteTimeout <= 0 {
		return fmt.Errorf("channel timeouts must be positive")
	}
	if c.Snapshot.MaxDepth < 0 {
		return fmt.Errorf("snapshot.max_depth must not be negative")
	}
	return nil
}
