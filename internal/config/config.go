// Package config loads the aero daemon configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file configuration.
const (
	EnvAddr      = "AERO_ADDR"
	EnvStorePath = "AERO_DB"
	EnvPluginDir = "AERO_PLUGIN_DIR"
	EnvCamera    = "AERO_CAMERA"
	EnvTray      = "AERO_TRAY"
)

// Config is the root of the YAML configuration file.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Camera   CameraConfig   `yaml:"camera"`
	Motion   MotionConfig   `yaml:"motion"`
	Detector DetectorConfig `yaml:"detector"`
	Plugins  PluginsConfig  `yaml:"plugins"`
	Tray     TrayConfig     `yaml:"tray"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"` // empty: search the usual web/ locations
}

// StoreConfig configures the SQLite database.
type StoreConfig struct {
	Path           string `yaml:"path"`
	EventRetention int    `yaml:"event_retention"` // gesture events kept in the log
}

// CameraConfig configures capture and the idle/active frame rates.
type CameraConfig struct {
	DeviceID      int `yaml:"device_id"`
	Width         int `yaml:"width"`
	Height        int `yaml:"height"`
	IdleFPS       int `yaml:"idle_fps"`
	ActiveFPS     int `yaml:"active_fps"`
	IdleTimeoutMs int `yaml:"idle_timeout_ms"`
}

// MotionConfig configures the motion gate.
type MotionConfig struct {
	Threshold float64 `yaml:"threshold"` // percent of changed pixels
}

// DetectorConfig configures the hand landmark detector.
type DetectorConfig struct {
	MinConfidence         float64 `yaml:"min_confidence"`
	MinTrackingConfidence float64 `yaml:"min_tracking_confidence"`
}

// PluginsConfig configures plugin discovery and execution.
type PluginsConfig struct {
	Dir       string `yaml:"dir"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// TrayConfig configures the system tray icon.
type TrayConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Store: StoreConfig{
			Path:           "~/.aero/aero.db",
			EventRetention: 1000,
		},
		Camera: CameraConfig{
			Width:         640,
			Height:        480,
			IdleFPS:       5,
			ActiveFPS:     15,
			IdleTimeoutMs: 2000,
		},
		Motion: MotionConfig{Threshold: 1.0},
		Detector: DetectorConfig{
			MinConfidence:         0.5,
			MinTrackingConfidence: 0.5,
		},
		Plugins: PluginsConfig{
			Dir:       "~/.aero/plugins",
			TimeoutMs: 5000,
		},
		Tray: TrayConfig{Enabled: true},
	}
}

// Load reads the YAML file at path over the defaults, so omitted fields
// keep their default values. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(ExpandHome(path))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the process environment, then from
// envFile for variables the process does not set. A missing envFile is
// ignored.
func (c *Config) ApplyEnv(envFile string) error {
	fileEnv := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileEnv = m
		case errors.Is(err, os.ErrNotExist):
		default:
			return fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	}

	if v, ok := lookup(EnvAddr); ok {
		c.Server.Addr = v
	}
	if v, ok := lookup(EnvStorePath); ok {
		c.Store.Path = v
	}
	if v, ok := lookup(EnvPluginDir); ok {
		c.Plugins.Dir = v
	}
	if v, ok := lookup(EnvCamera); ok {
		id, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s=%q: %w", EnvCamera, v, err)
		}
		c.Camera.DeviceID = id
	}
	if v, ok := lookup(EnvTray); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %s=%q: %w", EnvTray, v, err)
		}
		c.Tray.Enabled = enabled
	}
	return c.Validate()
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Server.Addr == "":
		return errors.New("config: server.addr is required")
	case c.Store.Path == "":
		return errors.New("config: store.path is required")
	case c.Store.EventRetention < 0:
		return fmt.Errorf("config: store.event_retention must be >= 0, got %d", c.Store.EventRetention)
	case c.Camera.Width <= 0 || c.Camera.Height <= 0:
		return fmt.Errorf("config: camera resolution %dx%d is invalid", c.Camera.Width, c.Camera.Height)
	case c.Camera.IdleFPS <= 0 || c.Camera.ActiveFPS <= 0:
		return errors.New("config: camera frame rates must be positive")
	case c.Camera.IdleTimeoutMs <= 0:
		return errors.New("config: camera.idle_timeout_ms must be positive")
	case c.Motion.Threshold <= 0 || c.Motion.Threshold > 100:
		return fmt.Errorf("config: motion.threshold must be in (0, 100], got %v", c.Motion.Threshold)
	case !unit(c.Detector.MinConfidence) || !unit(c.Detector.MinTrackingConfidence):
		return errors.New("config: detector confidences must be in [0, 1]")
	case c.Plugins.TimeoutMs <= 0:
		return errors.New("config: plugins.timeout_ms must be positive")
	}
	return nil
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
