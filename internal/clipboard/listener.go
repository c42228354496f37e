package clipboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Stats counts what a Listener has done.
type Stats struct {
	Seen      int // Snapshots received
	Converted int // Snapshots written back normalized
	Skipped   int // Empty, oversized, self-written or already canonical
	Errors    int // Failed reads and writes
}

// ListenerOption configures a Listener.
type ListenerOption func(*Listener)

// WithLogger sets the listener's logger. Defaults to zerolog.Nop().
func WithLogger(logger zerolog.Logger) ListenerOption {
	return func(l *Listener) {
		l.logger = logger
	}
}

// WithMaxBytes skips snapshots larger than n bytes. Zero means no limit.
func WithMaxBytes(n int) ListenerOption {
	return func(l *Listener) {
		if n >= 0 {
			l.maxBytes = n
		}
	}
}

// Listener normalizes clipboard snapshots and writes changed text back.
// It remembers the last text it wrote and ignores that text when the
// source reports it, so its own writes never trigger another cycle.
type Listener struct {
	src       Source
	sink      Sink
	normalize func(string) string
	logger    zerolog.Logger
	maxBytes  int

	mu          sync.Mutex
	lastWritten string
	stats       Stats
}

// NewListener creates a listener reading from src, writing to sink and
// rewriting text with normalize.
func NewListener(src Source, sink Sink, normalize func(string) string, opts ...ListenerOption) *Listener {
	l := &Listener{
		src:       src,
		sink:      sink,
		normalize: normalize,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Handle runs one cycle on text and reports whether it wrote back.
func (l *Listener) Handle(text string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stats.Seen++
	switch {
	case text == "":
		l.stats.Skipped++
		return false, nil
	case l.lastWritten != "" && text == l.lastWritten:
		l.stats.Skipped++
		l.logger.Debug().Msg("skipping text written by this listener")
		return false, nil
	case l.maxBytes > 0 && len(text) > l.maxBytes:
		l.stats.Skipped++
		l.logger.Debug().Int("bytes", len(text)).Int("max", l.maxBytes).Msg("skipping oversized clipboard text")
		return false, nil
	}

	out := l.normalize(text)
	if out == text {
		l.stats.Skipped++
		l.logger.Debug().Int("bytes", len(text)).Msg("no math to rewrite")
		return false, nil
	}

	if err := l.sink.Write(out); err != nil {
		l.stats.Errors++
		return false, fmt.Errorf("writing normalized text: %w", err)
	}
	l.lastWritten = out
	l.stats.Converted++
	l.logger.Info().Int("bytes_in", len(text)).Int("bytes_out", len(out)).Msg("clipboard normalized")
	return true, nil
}

// Run handles snapshots from the source until ctx is done. Read and write
// errors are logged and polling continues; only ErrUnavailable stops Run.
// A cancelled context ends Run with a nil error.
func (l *Listener) Run(ctx context.Context) error {
	l.logger.Info().Msg("listening for clipboard changes")
	for {
		text, err := l.src.Next(ctx)
		if ctx.Err() != nil {
			l.logger.Info().Msg("stopped listening")
			return nil
		}
		if err != nil {
			if errors.Is(err, ErrUnavailable) {
				return err
			}
			l.mu.Lock()
			l.stats.Errors++
			l.mu.Unlock()
			l.logger.Warn().Err(err).Msg("clipboard read failed, retrying")
			continue
		}

		if _, err := l.Handle(text); err != nil {
			l.logger.Error().Err(err).Msg("clipboard write failed")
		}
	}
}

// Stats returns a snapshot of the counters.
func (l *Listener) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}
