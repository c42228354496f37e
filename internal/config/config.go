// Package config loads and validates go-mathnorm YAML configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mathnorm/internal/assets"
	"github.com/alnah/go-mathnorm/internal/fileutil"
	"github.com/alnah/go-mathnorm/internal/logging"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field limits.
const (
	MaxWorkers          = 32       // Matches mathnorm.MaxWorkers
	MaxExtensions       = 16       // File extensions scanned by convert
	MaxExtensionLength  = 16       // ".markdown"
	MaxIntervalLength   = 20       // "500ms", "1m30s"
	MaxTitleLength      = 200      // Preview page title
	MaxURLLength        = 2048     // Browser limit
	MaxPathLength       = 4096     // PATH_MAX on Linux
	MaxClipboardBytes   = 64 << 20 // Upper bound for watch.maxBytes
	MinInterval         = 50 * time.Millisecond
	DefaultInterval     = "500ms"
	DefaultMaxBytes     = 1 << 20
	DefaultLogLevel     = "info"
	DefaultLogFormat    = logging.FormatConsole
	configDirectoryName = "go-mathnorm"
)

// DefaultExtensions are the file types convert picks up in a directory.
var DefaultExtensions = []string{".md", ".markdown", ".txt"}

// Config holds all configuration for the CLI.
type Config struct {
	Convert ConvertConfig `yaml:"convert"`
	Watch   WatchConfig   `yaml:"watch"`
	Preview PreviewConfig `yaml:"preview"`
}

// ConvertConfig defines file conversion options.
type ConvertConfig struct {
	Workers    int      `yaml:"workers"`    // 0 = based on GOMAXPROCS
	Extensions []string `yaml:"extensions"` // Directory scan filter
	NoFallback bool     `yaml:"noFallback"` // Return input unchanged when parsing fails
}

// WatchConfig defines clipboard listener options.
type WatchConfig struct {
	Interval  string `yaml:"interval"`  // Go duration (default: "500ms")
	MaxBytes  int    `yaml:"maxBytes"`  // Skip larger clipboard text; 0 = no limit
	LogLevel  string `yaml:"logLevel"`  // debug, info, warn, error, off
	LogFormat string `yaml:"logFormat"` // console or json
}

// PreviewConfig defines HTML preview options.
type PreviewConfig struct {
	NoMathJax  bool   `yaml:"noMathJax"`  // Omit the MathJax script
	Title      string `yaml:"title"`      // Empty = first heading
	MathJaxURL string `yaml:"mathjaxURL"` // Empty = jsDelivr MathJax 3
	CSS        string `yaml:"css"`        // Path to an extra stylesheet
	Theme      string `yaml:"theme"`      // Built-in or themesDir theme; "none" disables
	ThemesDir  string `yaml:"themesDir"`  // Directory of {name}.css themes
}

// IntervalDuration parses Watch.Interval, using DefaultInterval when empty.
func (w WatchConfig) IntervalDuration() (time.Duration, error) {
	s := w.Interval
	if s == "" {
		s = DefaultInterval
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: watch.interval %q: %v", ErrInvalidValue, w.Interval, err)
	}
	if d < MinInterval {
		return 0, fmt.Errorf("%w: watch.interval must be at least %s, got %s", ErrInvalidValue, MinInterval, d)
	}
	return d, nil
}

// Validate checks field ranges and lengths.
// Called automatically by LoadConfig, but available for callers
// who construct or modify a Config (flags, environment).
func (c *Config) Validate() error {
	if c.Convert.Workers < 0 || c.Convert.Workers > MaxWorkers {
		return fmt.Errorf("%w: convert.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Convert.Workers)
	}
	if len(c.Convert.Extensions) > MaxExtensions {
		return fmt.Errorf("%w: convert.extensions has %d entries (max %d)", ErrInvalidValue, len(c.Convert.Extensions), MaxExtensions)
	}
	for i, ext := range c.Convert.Extensions {
		field := fmt.Sprintf("convert.extensions[%d]", i)
		if err := validateFieldLength(field, ext, MaxExtensionLength); err != nil {
			return err
		}
		if err := fileutil.ValidateExtension(ext); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidValue, field, err)
		}
	}

	if err := validateFieldLength("watch.interval", c.Watch.Interval, MaxIntervalLength); err != nil {
		return err
	}
	if _, err := c.Watch.IntervalDuration(); err != nil {
		return err
	}
	if c.Watch.MaxBytes < 0 || c.Watch.MaxBytes > MaxClipboardBytes {
		return fmt.Errorf("%w: watch.maxBytes must be between 0 and %d, got %d", ErrInvalidValue, MaxClipboardBytes, c.Watch.MaxBytes)
	}
	if _, err := logging.ParseLevel(c.Watch.LogLevel); err != nil {
		return fmt.Errorf("%w: watch.logLevel: %v", ErrInvalidValue, err)
	}
	if !logging.ValidFormat(c.Watch.LogFormat) {
		return fmt.Errorf("%w: watch.logFormat %q (must be console or json)", ErrInvalidValue, c.Watch.LogFormat)
	}

	if err := validateFieldLength("preview.title", c.Preview.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("preview.mathjaxURL", c.Preview.MathJaxURL, MaxURLLength); err != nil {
		return err
	}
	if c.Preview.MathJaxURL != "" {
		if u, err := url.Parse(c.Preview.MathJaxURL); err != nil || !fileutil.IsURL(c.Preview.MathJaxURL) || u.Host == "" {
			return fmt.Errorf("%w: preview.mathjaxURL %q (must be an http or https URL)", ErrInvalidValue, c.Preview.MathJaxURL)
		}
	}
	if err := validateFieldLength("preview.css", c.Preview.CSS, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("preview.themesDir", c.Preview.ThemesDir, MaxPathLength); err != nil {
		return err
	}
	if c.Preview.Theme != "" && c.Preview.Theme != assets.NoTheme {
		if err := assets.ValidateThemeName(c.Preview.Theme); err != nil {
			return fmt.Errorf("%w: preview.theme: %v", ErrInvalidValue, err)
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Convert: ConvertConfig{
			Workers:    0,
			Extensions: append([]string(nil), DefaultExtensions...),
		},
		Watch: WatchConfig{
			Interval:  DefaultInterval,
			MaxBytes:  DefaultMaxBytes,
			LogLevel:  DefaultLogLevel,
			LogFormat: DefaultLogFormat,
		},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields missing from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Convert.Extensions = nil
	if err := unmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigParse, configPath, err)
	}
	if cfg.Convert.Extensions == nil {
		cfg.Convert.Extensions = append([]string(nil), DefaultExtensions...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists the files LoadConfig tries for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, configDirectoryName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/go-mathnorm/
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
