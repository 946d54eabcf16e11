// Package config loads craftworks settings from a TOML file and CRAFTWORKS_
// environment overrides.
package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

const EnvPrefix = "CRAFTWORKS_"

type Config struct {
	LogLevel  string `toml:"log_level" env:"LOG_LEVEL"`
	LogFormat string `toml:"log_format" env:"LOG_FORMAT"`

	// Content lists extra content files applied after the builtin set.
	Content     []string `toml:"content" env:"CONTENT" envSeparator:","`
	SkipBuiltin bool     `toml:"skip_builtin" env:"SKIP_BUILTIN"`

	// Archive is loaded at start when it exists and written by autosave.
	Archive  string `toml:"archive" env:"ARCHIVE"`
	AutoSave bool   `toml:"autosave" env:"AUTOSAVE"`

	// MetricsAddr serves /metrics when set.
	MetricsAddr string `toml:"metrics_addr" env:"METRICS_ADDR"`
}

func Default() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// Load starts from Default, overlays the TOML file at path when path is not
// empty, then applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
		}
	}
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.normalise()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv applies CRAFTWORKS_ prefixed variables onto target.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) normalise() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.Archive = strings.TrimSpace(c.Archive)
	c.MetricsAddr = strings.TrimSpace(c.MetricsAddr)
	paths := c.Content[:0]
	for _, p := range c.Content {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	c.Content = paths
}

func (c Config) Validate() error {
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("invalid log_level: %q", c.LogLevel)
	}
	if !slices.Contains([]string{"console", "json"}, c.LogFormat) {
		return fmt.Errorf("invalid log_format: %q", c.LogFormat)
	}
	if c.AutoSave && c.Archive == "" {
		return fmt.Errorf("autosave requires an archive path")
	}
	if c.SkipBuiltin && len(c.Content) == 0 {
		return fmt.Errorf("skip_builtin requires at least one content file")
	}
	return nil
}
