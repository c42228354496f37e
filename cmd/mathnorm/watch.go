package main

import (
	"context"
	"fmt"
	"runtime"

	"github.com/alnah/go-mathnorm/internal/clipboard"
	"github.com/alnah/go-mathnorm/internal/config"
	"github.com/alnah/go-mathnorm/internal/hints"
	"github.com/alnah/go-mathnorm/internal/logging"
)

// runWatch polls the clipboard and writes normalized text back until ctx
// is canceled.
func runWatch(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseWatchFlags(args, env.Stdout)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: watch takes no arguments", ErrUsage)
	}

	cfg, err := loadConfig(flags.common.config, loadEnvConfig())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	mergeWatchFlags(flags, cfg)
	interval, err := cfg.Watch.IntervalDuration()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w%s", err, hints.ForInterval())
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(env.Stderr, cfg.Watch.LogLevel, cfg.Watch.LogFormat)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	if !env.ClipboardAvailable() {
		return fmt.Errorf("%w%s", clipboard.ErrUnavailable, hints.ForClipboardUnavailable(runtime.GOOS))
	}

	normalizer := newNormalizer(cfg, logger)
	src := clipboard.NewPollingSource(env.Clipboard, interval)
	listener := clipboard.NewListener(src, env.Clipboard, normalizer.Normalize,
		clipboard.WithLogger(logger),
		clipboard.WithMaxBytes(cfg.Watch.MaxBytes),
	)

	logger.Info().Dur("interval", interval).Int("max_bytes", cfg.Watch.MaxBytes).Msg("watch started")
	err = listener.Run(ctx)

	stats := listener.Stats()
	logger.Info().
		Int("seen", stats.Seen).
		Int("converted", stats.Converted).
		Int("skipped", stats.Skipped).
		Int("errors", stats.Errors).
		Msg("watch stopped")

	if err != nil {
		return fmt.Errorf("%w%s", err, hints.ForClipboardUnavailable(runtime.GOOS))
	}
	return nil
}

// mergeWatchFlags applies CLI flags over config values (CLI wins).
// --quiet and --verbose override the configured log level.
func mergeWatchFlags(flags *watchFlags, cfg *config.Config) {
	if flags.interval != "" {
		cfg.Watch.Interval = flags.interval
	}
	if flags.maxBytes != unsetInt {
		cfg.Watch.MaxBytes = flags.maxBytes
	}
	if flags.logLevel != "" {
		cfg.Watch.LogLevel = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Watch.LogFormat = flags.logFormat
	}

	switch {
	case flags.common.quiet:
		cfg.Watch.LogLevel = "error"
	case flags.common.verbose:
		cfg.Watch.LogLevel = "debug"
	}
}
