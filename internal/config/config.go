// Package config loads user settings from ~/.arrayprism/config.yaml and the
// ARRAYPRISM_* environment variables. Environment variables win.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/CaptShanks/arrayprism/internal/formatter"
	"github.com/CaptShanks/arrayprism/internal/urlparams"
)

const (
	// BaseDirName is the directory under the user's home holding all state
	BaseDirName = ".arrayprism"
	// FileName is the config file inside the base directory
	FileName = "config.yaml"

	DefaultUpdateCheckInterval = 7
	DefaultMaxSaved            = 100
)

// Themes
const (
	ThemeAuto  = ""
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Config holds user settings
type Config struct {
	Theme               string `yaml:"theme"`
	Output              string `yaml:"output"`
	Param               string `yaml:"param"`
	Debug               bool   `yaml:"debug"`
	SkipUpdateCheck     bool   `yaml:"skip_update_check"`
	UpdateCheckInterval int    `yaml:"update_check_interval_days"`
	MaxSaved            int    `yaml:"max_saved"`

	// Home is the resolved base directory; it is never read from the file
	Home string `yaml:"-"`
}

// Default returns the built-in settings rooted at home
func Default(home string) *Config {
	return &Config{
		Output:              string(formatter.OutputAuto),
		Param:               urlparams.DefaultParam,
		UpdateCheckInterval: DefaultUpdateCheckInterval,
		MaxSaved:            DefaultMaxSaved,
		Home:                home,
	}
}

// BaseDir returns ARRAYPRISM_HOME or ~/.arrayprism
func BaseDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("ARRAYPRISM_HOME")); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, BaseDirName), nil
}

// Load reads the config file (if any) and applies environment overrides
func Load() (*Config, error) {
	home, err := BaseDir()
	if err != nil {
		return nil, err
	}

	cfg := Default(home)
	if err := cfg.readFile(filepath.Join(home, FileName)); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v, ok := lookup("ARRAYPRISM_THEME"); ok {
		c.Theme = strings.ToLower(v)
	}
	if v, ok := lookup("ARRAYPRISM_OUTPUT"); ok {
		c.Output = v
	}
	if v, ok := lookup("ARRAYPRISM_PARAM"); ok {
		c.Param = v
	}
	if v, ok := lookup("ARRAYPRISM_DEBUG"); ok {
		c.Debug = IsTruthy(v)
	}
	if v, ok := lookup("ARRAYPRISM_SKIP_UPDATE_CHECK"); ok {
		c.SkipUpdateCheck = IsTruthy(v)
	}
	if v, ok := lookup("ARRAYPRISM_UPDATE_CHECK_INTERVAL"); ok {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ARRAYPRISM_UPDATE_CHECK_INTERVAL %q: %w", v, err)
		}
		c.UpdateCheckInterval = days
	}
	if v, ok := lookup("ARRAYPRISM_MAX_SAVED"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ARRAYPRISM_MAX_SAVED %q: %w", v, err)
		}
		c.MaxSaved = n
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Theme {
	case ThemeAuto, ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("unknown theme %q (want light or dark)", c.Theme)
	}
	if _, err := formatter.ParseOutputMode(c.Output); err != nil {
		return err
	}
	if strings.TrimSpace(c.Param) == "" {
		c.Param = urlparams.DefaultParam
	}
	if c.UpdateCheckInterval <= 0 {
		c.UpdateCheckInterval = DefaultUpdateCheckInterval
	}
	if c.MaxSaved < 0 {
		c.MaxSaved = 0
	}
	return nil
}

// OutputMode returns the configured default output mode
func (c *Config) OutputMode() formatter.OutputMode {
	mode, err := formatter.ParseOutputMode(c.Output)
	if err != nil {
		return formatter.OutputAuto
	}
	return mode
}

// SavedDir is where saved outputs are written
func (c *Config) SavedDir() string { return filepath.Join(c.Home, "saved") }

// LogDir holds the debug log
func (c *Config) LogDir() string { return filepath.Join(c.Home, "logs") }

// CacheDir holds the update check cache
func (c *Config) CacheDir() string { return c.Home }

// IsTruthy reports whether an environment value means "on"
func IsTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
