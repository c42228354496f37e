package clipboard

import (
	"errors"
	"fmt"

	atotto "github.com/atotto/clipboard"
)

// Sentinel errors for clipboard access.
var (
	ErrUnavailable = errors.New("clipboard unavailable")
	ErrRead        = errors.New("clipboard read failed")
	ErrWrite       = errors.New("clipboard write failed")
)

// Reader reads the current clipboard text.
type Reader interface {
	ReadAll() (string, error)
}

// Writer replaces the clipboard text.
type Writer interface {
	WriteAll(text string) error
}

// System is the platform clipboard.
type System struct{}

// Compile-time interface checks.
var (
	_ Reader = System{}
	_ Writer = System{}
	_ Sink   = System{}
)

// Available reports whether a clipboard backend was found. On Linux this
// needs xclip, xsel, wl-clipboard or termux-api on PATH.
func Available() bool {
	return !atotto.Unsupported
}

// ReadAll returns the clipboard text.
func (System) ReadAll() (string, error) {
	if !Available() {
		return "", ErrUnavailable
	}
	text, err := atotto.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRead, err)
	}
	return text, nil
}

// WriteAll replaces the clipboard text.
func (System) WriteAll(text string) error {
	if !Available() {
		return ErrUnavailable
	}
	if err := atotto.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// Write implements Sink.
func (s System) Write(text string) error {
	return s.WriteAll(text)
}
