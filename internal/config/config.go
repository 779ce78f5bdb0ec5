// Package config loads the optional Bluedoc user configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"bluedoc/internal/editor"
	"bluedoc/pkg/bluedoc"
)

// RelPath is the config file location relative to the XDG config home.
const RelPath = "bluedoc/config.toml"

// Config represents the user's configuration
type Config struct {
	Editor EditorConfig `toml:"editor"`
	Window WindowConfig `toml:"window"`
	Log    LogConfig    `toml:"log"`
}

// EditorConfig holds document and editing settings
type EditorConfig struct {
	Format       string `toml:"format"`        // Format for new documents: html, text (default: html)
	StartDir     string `toml:"start_dir"`     // Directory file dialogs open in (default: the user's Downloads dir)
	HistoryDepth int    `toml:"history_depth"` // Undo steps kept (default: 200, min: 1, max: 10000)
}

// WindowConfig holds the initial window size
type WindowConfig struct {
	Width  int `toml:"width"`  // Default: 800, min: 320
	Height int `toml:"height"` // Default: 600, min: 240
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error (default: warn)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Editor: EditorConfig{
			Format:       bluedoc.FormatHTML.String(),
			HistoryDepth: editor.DefaultHistoryDepth,
		},
		Window: WindowConfig{Width: 800, Height: 600},
		Log:    LogConfig{Level: "warn"},
	}
}

// Load reads the config from the XDG config directories. A missing file
// yields the defaults.
func Load() (*Config, string, error) {
	path, err := xdg.SearchConfigFile(RelPath)
	if err != nil {
		return DefaultConfig(), "", nil
	}
	cfg, err := LoadFile(path)
	return cfg, path, err
}

// LoadFile reads the config at path. Keys the file leaves out keep their
// default values.
func LoadFile(path string) (*Config, error) {
	// #nosec G304 - path comes from the XDG search or the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.Validate()
	return cfg, nil
}

// Save writes cfg to the user's config file and returns its path.
func Save(cfg *Config) (string, error) {
	path, err := xdg.ConfigFile(RelPath)
	if err != nil {
		return "", fmt.Errorf("failed to get config path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	var sb strings.Builder
	sb.WriteString("# Bluedoc configuration\n")
	sb.WriteString("# editor.format: html or text, used for new documents\n")
	sb.WriteString("# log.level: debug, info, warn or error\n\n")
	sb.Write(data)
	if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

// Validate replaces out-of-range values with defaults or clamps them.
func (c *Config) Validate() {
	def := DefaultConfig()
	if _, err := bluedoc.ParseFormat(c.Editor.Format); err != nil {
		c.Editor.Format = def.Editor.Format
	}
	if c.Editor.HistoryDepth <= 0 {
		c.Editor.HistoryDepth = def.Editor.HistoryDepth
	}
	c.Editor.HistoryDepth = min(c.Editor.HistoryDepth, 10000)
	if c.Window.Width <= 0 {
		c.Window.Width = def.Window.Width
	}
	if c.Window.Height <= 0 {
		c.Window.Height = def.Window.Height
	}
	c.Window.Width = max(c.Window.Width, 320)
	c.Window.Height = max(c.Window.Height, 240)
	if _, ok := parseLevel(c.Log.Level); !ok {
		c.Log.Level = def.Log.Level
	}
}

// DocumentFormat is the codec new documents are saved with.
func (c *Config) DocumentFormat() bluedoc.Format {
	f, _ := bluedoc.ParseFormat(c.Editor.Format)
	return f
}

func (c *Config) LogLevel() slog.Level {
	lvl, _ := parseLevel(c.Log.Level)
	return lvl
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelWarn, false
}
