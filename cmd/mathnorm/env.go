package main

import (
	"io"
	"os"

	"github.com/alnah/go-mathnorm/internal/clipboard"
)

// Clipboard is the clipboard the watch and doctor commands use.
type Clipboard interface {
	clipboard.Reader
	clipboard.Sink
}

// Environment holds injectable dependencies for testing.
type Environment struct {
	Stdin              io.Reader
	Stdout             io.Writer
	Stderr             io.Writer
	Clipboard          Clipboard
	ClipboardAvailable func() bool
}

// DefaultEnv returns an Environment with production defaults.
func DefaultEnv() *Environment {
	return &Environment{
		Stdin:              os.Stdin,
		Stdout:             os.Stdout,
		Stderr:             os.Stderr,
		Clipboard:          clipboard.System{},
		ClipboardAvailable: clipboard.Available,
	}
}
