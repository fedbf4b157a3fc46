package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFrom_NoFilesGivesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, DefaultAsset, cfg.Asset)
	assert.Equal(t, 10*time.Millisecond, cfg.RefreshInterval)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
	assert.False(t, cfg.HasPresence())
}

func TestLoadFrom_ReadsValues(t *testing.T) {
	path := writeConfig(t, `
asset_dir = "/srv/audio"
asset = "intro"
refresh_interval = "50ms"
seek_step = "10s"
volume = 0.5
theme = "Dark"
log_level = "DEBUG"

[presence]
enabled = true
client_id = "1234"
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/audio", cfg.AssetDir)
	assert.Equal(t, "intro", cfg.Asset)
	assert.Equal(t, 50*time.Millisecond, cfg.RefreshInterval)
	assert.Equal(t, 10*time.Second, cfg.SeekStep)
	assert.Equal(t, 0.5, cfg.Volume)
	assert.Equal(t, "dark", cfg.Theme)
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())
	assert.True(t, cfg.HasPresence())
}

func TestLoadFrom_LaterFileWins(t *testing.T) {
	first := writeConfig(t, `
asset = "first"
volume = 0.2
`)
	second := writeConfig(t, `asset = "second"`)

	cfg, err := LoadFrom(first, second)
	require.NoError(t, err)

	assert.Equal(t, "second", cfg.Asset)
	assert.Equal(t, 0.2, cfg.Volume)
}

func TestLoadFrom_NormalisesInvalidValues(t *testing.T) {
	path := writeConfig(t, `
asset = "   "
refresh_interval = "-1s"
seek_step = "0s"
volume = 3.0
theme = "purple"
log_level = "loud"
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultAsset, cfg.Asset)
	assert.Equal(t, DefaultRefreshInterval, cfg.RefreshInterval)
	assert.Equal(t, DefaultSeekStep, cfg.SeekStep)
	assert.Equal(t, DefaultVolume, cfg.Volume)
	assert.Equal(t, DefaultTheme, cfg.Theme)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLoadFrom_BadTOML(t *testing.T) {
	path := writeConfig(t, `asset = [unterminated`)

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestHasPresence_NeedsClientID(t *testing.T) {
	cfg := Default()
	cfg.Presence.Enabled = true
	assert.False(t, cfg.HasPresence())

	cfg.Presence.ClientID = "1234"
	assert.True(t, cfg.HasPresence())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"tilde expands to home", "~/music", filepath.Join(home, "music")},
		{"absolute path unchanged", "/usr/local/music", "/usr/local/music"},
		{"relative path unchanged", "music/assets", "music/assets"},
		{"empty string unchanged", "", ""},
		{"tilde only", "~", home},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandPath(tt.input))
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	require.Len(t, paths, 2)
	assert.Equal(t, "config.toml", paths[len(paths)-1])
	assert.Contains(t, paths[0], appName)
}
