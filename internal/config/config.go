package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

const appName = "musicplayer"

// Defaults
const (
	DefaultAsset           = "sound"
	DefaultRefreshInterval = 10 * time.Millisecond
	DefaultSeekStep        = 5 * time.Second
	DefaultVolume          = 1.0
	DefaultTheme           = "light"
	DefaultLogLevel        = "info"
)

type Config struct {
	AssetDir        string        `koanf:"asset_dir"`        // directory holding the audio assets
	Asset           string        `koanf:"asset"`            // logical name of the asset to play
	RefreshInterval time.Duration `koanf:"refresh_interval"` // e.g. "10ms"
	SeekStep        time.Duration `koanf:"seek_step"`        // arrow-key jump, e.g. "5s"
	Volume          float64       `koanf:"volume"`           // 0..1
	Theme           string        `koanf:"theme"`            // "light" or "dark"
	LogLevel        string        `koanf:"log_level"`        // zerolog level name

	// Discord rich presence (off unless enabled)
	Presence PresenceConfig `koanf:"presence"`
}

// PresenceConfig holds Discord rich presence settings.
type PresenceConfig struct {
	Enabled  bool   `koanf:"enabled"`
	ClientID string `koanf:"client_id"` // Discord application ID
}

// Default returns the configuration used when no file sets a value.
func Default() *Config {
	return &Config{
		AssetDir:        filepath.Join(xdg.DataHome, appName, "assets"),
		Asset:           DefaultAsset,
		RefreshInterval: DefaultRefreshInterval,
		SeekStep:        DefaultSeekStep,
		Volume:          DefaultVolume,
		Theme:           DefaultTheme,
		LogLevel:        DefaultLogLevel,
	}
}

// Load reads the config files in priority order and applies defaults.
func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom merges the given TOML files, later files winning. Missing files
// are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, "cannot parse config %s", path)
			}
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "cannot decode config")
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.AssetDir = expandPath(strings.TrimSpace(c.AssetDir))
	if c.AssetDir == "" {
		c.AssetDir = Default().AssetDir
	}
	c.Asset = strings.TrimSpace(c.Asset)
	if c.Asset == "" {
		c.Asset = DefaultAsset
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = DefaultRefreshInterval
	}
	if c.SeekStep <= 0 {
		c.SeekStep = DefaultSeekStep
	}
	if c.Volume < 0 || c.Volume > 1 {
		c.Volume = DefaultVolume
	}
	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	if c.Theme != "dark" && c.Theme != "light" {
		c.Theme = DefaultTheme
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil || c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
}

// Level returns the configured log level.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// HasPresence returns true if Discord presence is enabled and configured.
func (c *Config) HasPresence() bool {
	return c.Presence.Enabled && c.Presence.ClientID != ""
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/musicplayer/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
