package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/floatdeck/floatdeck/internal/geometry"
)

// Config is the effective daemon configuration.
type Config struct {
	Viewport      ViewportConfig `yaml:"viewport"`
	Sync          SyncConfig     `yaml:"sync"`
	DefaultLayout string         `yaml:"default_layout"`
	Logging       LoggingConfig  `yaml:"logging"`
}

// ViewportConfig declares the virtual desktop size windows are laid out in.
type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SyncConfig configures the remote sync bridge. An empty URL disables it.
type SyncConfig struct {
	URL                      string `yaml:"url"`
	BroadcastIntervalSeconds int    `yaml:"broadcast_interval_seconds"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

const (
	defaultViewportWidth     = 1600
	defaultViewportHeight    = 900
	defaultBroadcastInterval = 30
	defaultLogLevel          = "info"
)

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "floatdeck", "config.yaml"), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Viewport: ViewportConfig{
			Width:  defaultViewportWidth,
			Height: defaultViewportHeight,
		},
		Sync: SyncConfig{
			BroadcastIntervalSeconds: defaultBroadcastInterval,
		},
		Logging: LoggingConfig{
			Level: defaultLogLevel,
		},
	}
}

// Load reads configuration from the standard location. A missing file yields
// the defaults rather than an error.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Viewport.Width == 0 {
		c.Viewport.Width = defaultViewportWidth
	}
	if c.Viewport.Height == 0 {
		c.Viewport.Height = defaultViewportHeight
	}
	if c.Sync.BroadcastIntervalSeconds == 0 {
		c.Sync.BroadcastIntervalSeconds = defaultBroadcastInterval
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) Validate() error {
	if c.Viewport.Width < geometry.MinWidth {
		return fmt.Errorf("viewport.width must be at least %d, got %d", geometry.MinWidth, c.Viewport.Width)
	}
	if c.Viewport.Height < geometry.MinHeight {
		return fmt.Errorf("viewport.height must be at least %d, got %d", geometry.MinHeight, c.Viewport.Height)
	}
	if c.Sync.BroadcastIntervalSeconds < 0 {
		return fmt.Errorf("sync.broadcast_interval_seconds must not be negative, got %d", c.Sync.BroadcastIntervalSeconds)
	}
	if url := strings.TrimSpace(c.Sync.URL); url != "" {
		if !strings.HasPrefix(url, "ws://") && !strings.HasPrefix(url, "wss://") {
			return fmt.Errorf("sync.url must use ws:// or wss://, got %q", url)
		}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}

// ViewportSize returns the configured viewport as a geometry size.
func (c *Config) ViewportSize() geometry.Size {
	return geometry.Size{Width: c.Viewport.Width, Height: c.Viewport.Height}
}
