package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/alnah/go-mathnorm/internal/config"
	"github.com/alnah/go-mathnorm/internal/hints"
)

// envPrefix marks the variables mathnorm reads.
const envPrefix = "MATHNORM_"

// envConfig holds configuration from environment variables.
// Lets shell profiles and launch agents tune watch without a YAML file.
type envConfig struct {
	ConfigPath string // MATHNORM_CONFIG: config file name or path
	Workers    int    // MATHNORM_WORKERS: parallel workers for convert
	NoFallback bool   // MATHNORM_NO_FALLBACK: disable the fallback pass
	Interval   string // MATHNORM_INTERVAL: clipboard polling interval
	MaxBytes   int    // MATHNORM_MAX_BYTES: clipboard size limit (-1 = unset)
	LogLevel   string // MATHNORM_LOG_LEVEL: watch log level
	LogFormat  string // MATHNORM_LOG_FORMAT: console or json
	MathJaxURL string // MATHNORM_MATHJAX_URL: preview MathJax script
	Theme      string // MATHNORM_THEME: preview theme
}

// knownEnvVars lists valid MATHNORM_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MATHNORM_CONFIG":      true,
	"MATHNORM_WORKERS":     true,
	"MATHNORM_NO_FALLBACK": true,
	"MATHNORM_INTERVAL":    true,
	"MATHNORM_MAX_BYTES":   true,
	"MATHNORM_LOG_LEVEL":   true,
	"MATHNORM_LOG_FORMAT":  true,
	"MATHNORM_MATHJAX_URL": true,
	"MATHNORM_THEME":       true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and booleans are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MATHNORM_CONFIG"),
		Interval:   os.Getenv("MATHNORM_INTERVAL"),
		LogLevel:   os.Getenv("MATHNORM_LOG_LEVEL"),
		LogFormat:  os.Getenv("MATHNORM_LOG_FORMAT"),
		MathJaxURL: os.Getenv("MATHNORM_MATHJAX_URL"),
		Theme:      os.Getenv("MATHNORM_THEME"),
		MaxBytes:   unsetInt,
	}

	if workers := os.Getenv("MATHNORM_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	if maxBytes := os.Getenv("MATHNORM_MAX_BYTES"); maxBytes != "" {
		if n, err := strconv.Atoi(maxBytes); err == nil && n >= 0 {
			cfg.MaxBytes = n
		}
	}

	if noFallback := os.Getenv("MATHNORM_NO_FALLBACK"); noFallback != "" {
		if b, err := strconv.ParseBool(noFallback); err == nil {
			cfg.NoFallback = b
		}
	}

	return cfg
}

// unknownEnvVars returns unrecognized MATHNORM_* variable names, sorted.
func unknownEnvVars() []string {
	var unknown []string
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// warnUnknownEnvVars prints a warning for each unrecognized MATHNORM_*
// variable. Helps catch typos like MATHNORM_INTERVALL.
func warnUnknownEnvVars(w io.Writer) {
	for _, name := range unknownEnvVars() {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig overlays set environment values on cfg.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Workers > 0 {
		cfg.Convert.Workers = env.Workers
	}
	if env.NoFallback {
		cfg.Convert.NoFallback = true
	}

	if env.Interval != "" {
		cfg.Watch.Interval = env.Interval
	}
	if env.MaxBytes != unsetInt {
		cfg.Watch.MaxBytes = env.MaxBytes
	}
	if env.LogLevel != "" {
		cfg.Watch.LogLevel = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Watch.LogFormat = env.LogFormat
	}

	if env.MathJaxURL != "" {
		cfg.Preview.MathJaxURL = env.MathJaxURL
	}
	if env.Theme != "" {
		cfg.Preview.Theme = env.Theme
	}
}

// loadConfig resolves the effective config: the named file (flag, then
// MATHNORM_CONFIG) or the defaults, overlaid with environment values.
func loadConfig(flagPath string, env *envConfig) (*config.Config, error) {
	name := flagPath
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}
