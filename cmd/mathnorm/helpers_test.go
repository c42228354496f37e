package main

// Notes:
// - This file contains test helpers shared by the command tests.
// - fakeClipboard stands in for the system clipboard; it is safe for
//   concurrent use because watch polls it from another goroutine.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Environment and clipboard fakes
// ---------------------------------------------------------------------------

// fakeClipboard is an in-memory Clipboard.
type fakeClipboard struct {
	mu      sync.Mutex
	text    string
	writes  []string
	reads   int
	readErr error
}

func (c *fakeClipboard) ReadAll() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads++
	if c.readErr != nil {
		return "", c.readErr
	}
	return c.text, nil
}

func (c *fakeClipboard) Write(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	c.writes = append(c.writes, text)
	return nil
}

// set simulates another application copying text.
func (c *fakeClipboard) set(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
}

func (c *fakeClipboard) readCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}

func (c *fakeClipboard) written() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.writes...)
}

var errClipboardDenied = errors.New("access denied")

// testEnv returns an Environment reading stdin from the given text, with
// captured output and an available fake clipboard.
func testEnv(stdin string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Stdin:              strings.NewReader(stdin),
		Stdout:             &stdout,
		Stderr:             &stderr,
		Clipboard:          &fakeClipboard{},
		ClipboardAvailable: func() bool { return true },
	}
	return env, &stdout, &stderr
}

// writeFile creates dir/name with content, making parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

// readFile returns the content of path.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	return string(data)
}
