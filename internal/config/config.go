package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings shared by the terminal UI and the web server.
type Config struct {
	Manifest          string
	SiteDir           string
	SlideInterval     time.Duration
	SwipeThreshold    float64
	DragThreshold     int
	ScrollThreshold   int
	Listen            string
	LogDir            string
	LogLevel          string
	SubmitDelay       time.Duration
	SubmitFailureRate float64
}

const (
	defaultConfigPath        = "~/.config/vitrine/config.toml"
	defaultSiteDir           = "."
	defaultLogDir            = "~/.local/share/vitrine/logs"
	defaultListen            = "127.0.0.1:8080"
	defaultLogLevel          = "info"
	defaultSlideInterval     = 5 * time.Second
	defaultSwipeThreshold    = 50.0
	defaultDragThreshold     = 6
	defaultScrollThreshold   = 3
	defaultSubmitDelay       = 2 * time.Second
	defaultSubmitFailureRate = 0.1
	manifestFile             = "images.json"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	cfg := Config{
		SiteDir:           mustExpand(defaultSiteDir),
		SlideInterval:     defaultSlideInterval,
		SwipeThreshold:    defaultSwipeThreshold,
		DragThreshold:     defaultDragThreshold,
		ScrollThreshold:   defaultScrollThreshold,
		Listen:            defaultListen,
		LogDir:            mustExpand(defaultLogDir),
		LogLevel:          defaultLogLevel,
		SubmitDelay:       defaultSubmitDelay,
		SubmitFailureRate: defaultSubmitFailureRate,
	}
	cfg.Manifest = filepath.Join(cfg.SiteDir, manifestFile)
	return cfg
}

type rawConfig struct {
	Manifest          string   `toml:"manifest"`
	SiteDir           string   `toml:"site_dir"`
	SlideInterval     string   `toml:"slide_interval"`
	SwipeThreshold    *float64 `toml:"swipe_threshold"`
	DragThreshold     *int     `toml:"drag_threshold"`
	ScrollThreshold   *int     `toml:"scroll_threshold"`
	Listen            string   `toml:"listen"`
	LogDir            string   `toml:"log_dir"`
	LogLevel          string   `toml:"log_level"`
	SubmitDelay       string   `toml:"submit_delay"`
	SubmitFailureRate *float64 `toml:"submit_failure_rate"`
}

// Load locates and parses the vitrine config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg, err := raw.apply(Default())
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (raw rawConfig) apply(cfg Config) (Config, error) {
	if v := strings.TrimSpace(raw.SiteDir); v != "" {
		cfg.SiteDir = mustExpand(v)
		cfg.Manifest = filepath.Join(cfg.SiteDir, manifestFile)
	}
	if v := strings.TrimSpace(raw.Manifest); v != "" {
		cfg.Manifest = ResolveManifest(v)
	}
	if v := strings.TrimSpace(raw.Listen); v != "" {
		cfg.Listen = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.LogDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	var err error
	if cfg.SlideInterval, err = parseDuration("slide_interval", raw.SlideInterval, cfg.SlideInterval); err != nil {
		return Config{}, err
	}
	if cfg.SubmitDelay, err = parseDuration("submit_delay", raw.SubmitDelay, cfg.SubmitDelay); err != nil {
		return Config{}, err
	}

	if raw.SwipeThreshold != nil {
		cfg.SwipeThreshold = *raw.SwipeThreshold
	}
	if raw.DragThreshold != nil {
		cfg.DragThreshold = *raw.DragThreshold
	}
	if raw.ScrollThreshold != nil {
		cfg.ScrollThreshold = *raw.ScrollThreshold
	}
	if raw.SubmitFailureRate != nil {
		cfg.SubmitFailureRate = *raw.SubmitFailureRate
	}
	return cfg, nil
}

func parseDuration(field, value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse config: %s: %w", field, err)
	}
	return d, nil
}

// Validate reports values the rest of the program cannot work with.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid config: log_level %q", c.LogLevel)
	}
	if c.SlideInterval <= 0 {
		return fmt.Errorf("invalid config: slide_interval must be positive")
	}
	if c.SubmitDelay < 0 {
		return fmt.Errorf("invalid config: submit_delay must not be negative")
	}
	if c.SwipeThreshold < 0 || c.DragThreshold < 0 || c.ScrollThreshold < 0 {
		return fmt.Errorf("invalid config: thresholds must not be negative")
	}
	if c.SubmitFailureRate < 0 || c.SubmitFailureRate > 1 {
		return fmt.Errorf("invalid config: submit_failure_rate must be between 0 and 1")
	}
	return nil
}

// LogPath returns the path to the vitrine log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/vitrine.log")
	}
	return filepath.Join(c.LogDir, "vitrine.log")
}

// ResolveManifest expands a manifest file path. URLs are returned unchanged.
func ResolveManifest(source string) string {
	source = strings.TrimSpace(source)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return source
	}
	return mustExpand(source)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath expands a leading '~' and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
