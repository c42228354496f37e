// Package logging configures the zerolog logger shared by the CLI.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Output formats accepted by New and Setup.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Sentinel errors for logger configuration.
var (
	ErrInvalidLevel  = errors.New("invalid log level")
	ErrInvalidFormat = errors.New("invalid log format")
)

var (
	mu  sync.RWMutex
	log = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// ParseLevel maps a level name to a zerolog level. "warning" is accepted as
// an alias for "warn"; the empty string means info.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled", "off":
		return zerolog.Disabled, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("%w: %q (use debug, info, warn, error or off)", ErrInvalidLevel, level)
	}
}

// ValidFormat reports whether format is a known output format.
func ValidFormat(format string) bool {
	switch format {
	case "", FormatConsole, FormatJSON:
		return true
	}
	return false
}

// New builds a logger writing to w. Console output is human readable,
// JSON output is one object per line.
func New(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if !ValidFormat(format) {
		return zerolog.Nop(), fmt.Errorf("%w: %q (use console or json)", ErrInvalidFormat, format)
	}

	out := w
	if format == "" || format == FormatConsole {
		out = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    !isTerminal(w),
			TimeFormat: time.TimeOnly,
		}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// Setup replaces the package logger.
func Setup(w io.Writer, level, format string) error {
	l, err := New(w, level, format)
	if err != nil {
		return err
	}
	mu.Lock()
	log = l
	mu.Unlock()
	return nil
}

// Logger returns the package logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Debug starts a debug event on the package logger.
func Debug() *zerolog.Event {
	l := Logger()
	return l.Debug()
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
