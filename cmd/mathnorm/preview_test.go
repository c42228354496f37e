package main

// Notes:
// - runPreview: we test file, stdin and -o outputs, title and MathJax
//   options, the extra stylesheet, and image paths relative to the input.
// - resolvePreviewOutput: we test the default .html naming.
// These are acceptable gaps: the page is not rendered in a browser.

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-mathnorm/internal/assets"
	"github.com/alnah/go-mathnorm/internal/config"
)

const previewInput = "# Notes\n\nArea: \\(\\pi r^2\\)\n"

// ---------------------------------------------------------------------------
// TestRunPreview - HTML output
// ---------------------------------------------------------------------------

func TestRunPreview_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "notes.md", previewInput+"\n![plot](plot.png)\n")

	env, stdout, _ := testEnv("")
	if err := runPreview(context.Background(), []string{in}, env); err != nil {
		t.Fatalf("runPreview() error: %v", err)
	}

	out := filepath.Join(dir, "notes.html")
	page := readFile(t, out)
	for _, want := range []string{
		"<title>Notes</title>",
		`<span class="math inline">\(\pi r^2\)</span>`,
		`id="MathJax-script"`,
		"file://",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if !strings.Contains(stdout.String(), "Created "+out) {
		t.Errorf("stdout = %q, want Created line", stdout.String())
	}
}

func TestRunPreview_StdinToStdout(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv(previewInput)
	if err := runPreview(context.Background(), []string{"-", "--no-mathjax", "--title", "Chat"}, env); err != nil {
		t.Fatalf("runPreview() error: %v", err)
	}

	page := stdout.String()
	if !strings.HasPrefix(page, "<!DOCTYPE html>") {
		t.Errorf("stdout does not start with a document: %q", page[:min(len(page), 40)])
	}
	if !strings.Contains(page, "<title>Chat</title>") {
		t.Error("page missing explicit title")
	}
	if strings.Contains(page, "MathJax-script") {
		t.Error("page loads MathJax despite --no-mathjax")
	}
}

func TestRunPreview_OutputAndCSS(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "in.md", previewInput)
	css := writeFile(t, dir, "extra.css", "body { color: teal; }")
	out := filepath.Join(dir, "page.html")

	env, stdout, _ := testEnv("")
	args := []string{in, "-o", out, "--css", css, "-q", "--mathjax-url", "https://example.com/mj.js"}
	if err := runPreview(context.Background(), args, env); err != nil {
		t.Fatalf("runPreview() error: %v", err)
	}

	page := readFile(t, out)
	if !strings.Contains(page, "body { color: teal; }") {
		t.Error("page missing extra stylesheet")
	}
	if !strings.Contains(page, `src="https://example.com/mj.js"`) {
		t.Error("page missing custom MathJax URL")
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty with -q", stdout.String())
	}
}

func TestRunPreview_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "in.md", previewInput)

	tests := []struct {
		name     string
		args     []string
		wantErr  error
		wantCode int
	}{
		{"no input", nil, ErrUsage, ExitUsage},
		{"two inputs", []string{in, in}, ErrUsage, ExitUsage},
		{"missing input", []string{filepath.Join(dir, "none.md")}, ErrReadInput, ExitIO},
		{"missing css", []string{in, "--css", filepath.Join(dir, "none.css")}, ErrReadCSS, ExitIO},
		{"unknown theme", []string{in, "--theme", "neon"}, assets.ErrThemeNotFound, ExitUsage},
		{"theme path", []string{in, "--theme", "../x"}, config.ErrInvalidValue, ExitUsage},
		{"missing themes dir", []string{in, "--themes-dir", filepath.Join(dir, "none")}, assets.ErrInvalidBasePath, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, _ := testEnv("")
			err := runPreview(context.Background(), tt.args, env)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("runPreview(%v) error = %v, want %v", tt.args, err, tt.wantErr)
			}
			if got := exitCodeFor(err); got != tt.wantCode {
				t.Errorf("exitCodeFor() = %d, want %d", got, tt.wantCode)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPreviewCSS - Themes and extra stylesheet
// ---------------------------------------------------------------------------

func TestPreviewCSS(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	extra := writeFile(t, dir, "extra.css", "p { margin: 0; }")
	writeFile(t, dir, "themes/paper.css", "body { background: ivory; }")
	themesDir := filepath.Join(dir, "themes")

	builtin, err := assets.LoadTheme(assets.DefaultTheme)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		cfg  config.PreviewConfig
		want string
	}{
		{"default theme", config.PreviewConfig{}, builtin},
		{"theme and extra", config.PreviewConfig{CSS: extra}, builtin + "\n" + "p { margin: 0; }"},
		{"no theme", config.PreviewConfig{Theme: assets.NoTheme}, ""},
		{"no theme with extra", config.PreviewConfig{Theme: assets.NoTheme, CSS: extra}, "p { margin: 0; }"},
		{"custom theme", config.PreviewConfig{Theme: "paper", ThemesDir: themesDir}, "body { background: ivory; }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := previewCSS(tt.cfg)
			if err != nil {
				t.Fatalf("previewCSS() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("previewCSS() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolvePreviewOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input, output, want string
	}{
		{"notes.md", "", "notes.html"},
		{filepath.Join("a", "chat.txt"), "", filepath.Join("a", "chat.html")},
		{"README", "", "README.html"},
		{"notes.md", "x.html", "x.html"},
		{"-", "", "-"},
		{"notes.md", "-", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.input+"|"+tt.output, func(t *testing.T) {
			t.Parallel()

			if got := resolvePreviewOutput(tt.input, tt.output); got != tt.want {
				t.Errorf("resolvePreviewOutput(%q, %q) = %q, want %q", tt.input, tt.output, got, tt.want)
			}
		})
	}
}
