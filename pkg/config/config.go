// Package config loads the ct configuration file.
//
// The file is YAML and lives at ~/.countdown/config.yaml unless
// COUNTDOWN_CONFIG points elsewhere:
//
//	db_path: ~/.countdown/history.db
//	debug: false
//	history: true
//	presets:
//	  tea: 3m
//	  pomodoro: 25:00
//
// Preset values accept anything duration.Parse does.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/daviddao/countdown/pkg/duration"
)

// Environment variables that override the file.
const (
	EnvConfig  = "COUNTDOWN_CONFIG"
	EnvDB      = "COUNTDOWN_DB"
	EnvDebug   = "COUNTDOWN_DEBUG"
	EnvHistory = "COUNTDOWN_HISTORY"
)

// ErrUnknownPreset is returned by Preset for a name not in the file.
var ErrUnknownPreset = errors.New("unknown preset")

// Config is the on-disk configuration.
type Config struct {
	DBPath  string            `yaml:"db_path"`
	Debug   bool              `yaml:"debug"`
	History bool              `yaml:"history"`
	Presets map[string]string `yaml:"presets"`
}

// DefaultDir is ~/.countdown, or .countdown when the home directory is
// unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".countdown"
	}
	return filepath.Join(home, ".countdown")
}

// DefaultPath is the config file used when COUNTDOWN_CONFIG is unset.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// DefaultConfig returns the configuration written by `ct init`.
func DefaultConfig() *Config {
	return &Config{
		DBPath:  filepath.Join(DefaultDir(), "history.db"),
		History: true,
		Presets: map[string]string{
			"tea":      "3m",
			"egg":      "7m",
			"pomodoro": "25m",
			"break":    "5m",
		},
	}
}

// Load reads path. A missing file yields DefaultConfig. Presets in the
// file replace the default set rather than merging with it.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	defaults := cfg.Presets
	cfg.Presets = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Presets == nil {
		cfg.Presets = defaults
	}
	cfg.DBPath = expandHome(cfg.DBPath)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes c to path, creating the directory if needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that every preset names a positive duration.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("db_path is empty")
	}
	for _, name := range c.PresetNames() {
		if strings.TrimSpace(name) == "" {
			return errors.New("preset with empty name")
		}
		if _, err := c.Preset(name); err != nil {
			return err
		}
	}
	return nil
}

// ApplyEnv overrides fields from the environment. getenv is os.Getenv in
// production.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvDB); v != "" {
		c.DBPath = expandHome(v)
	}
	if b, err := strconv.ParseBool(getenv(EnvDebug)); err == nil {
		c.Debug = b
	}
	if b, err := strconv.ParseBool(getenv(EnvHistory)); err == nil {
		c.History = b
	}
}

// Preset resolves a preset name to a duration.
func (c *Config) Preset(name string) (duration.Duration, error) {
	raw, ok := c.Presets[name]
	if !ok {
		return duration.Duration{}, fmt.Errorf("%w %q", ErrUnknownPreset, name)
	}
	d, err := duration.Parse(raw)
	if err != nil {
		return duration.Duration{}, fmt.Errorf("preset %q: %w", name, err)
	}
	if d.IsZero() {
		return duration.Duration{}, fmt.Errorf("preset %q: duration is zero", name)
	}
	return d, nil
}

// PresetNames returns the preset names in sorted order.
func (c *Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for n := range c.Presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
