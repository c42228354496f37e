package fileutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/alnah/go-mathnorm/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestWriteFileAtomic - Atomic replacement
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name     string
		existing []byte
		data     []byte
	}{
		{
			name: "creates new file",
			data: []byte("$x$\n"),
		},
		{
			name:     "replaces existing file",
			existing: []byte("\\(x\\)\n"),
			data:     []byte("$x$\n"),
		},
		{
			name:     "writes empty content",
			existing: []byte("old"),
			data:     []byte{},
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(dir, "file"+string(rune('a'+i))+".md")
			if tt.existing != nil {
				if err := os.WriteFile(path, tt.existing, 0o644); err != nil {
					t.Fatalf("setup: %v", err)
				}
			}

			if err := fileutil.WriteFileAtomic(path, tt.data, 0o644); err != nil {
				t.Fatalf("WriteFileAtomic() error: %v", err)
			}

			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading result: %v", err)
			}
			if string(got) != string(tt.data) {
				t.Errorf("content = %q, want %q", got, tt.data)
			}
		})
	}
}

func TestWriteFileAtomic_KeepsPermissions(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not preserved on Windows")
	}

	path := filepath.Join(t.TempDir(), "notes.md")
	if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := fileutil.WriteFileAtomic(path, []byte("new"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic() error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Mode().Perm(); got != 0o600 {
		t.Errorf("mode = %o, want 600", got)
	}
}

func TestWriteFileAtomic_LeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	if err := fileutil.WriteFileAtomic(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic() error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "notes.md" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory holds %v, want [notes.md]", names)
	}
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "notes.md")
	if err := fileutil.WriteFileAtomic(path, []byte("x"), 0o644); err == nil {
		t.Error("WriteFileAtomic() error = nil, want error for missing directory")
	}
}

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{"markdown", ".md", nil},
		{"long", ".markdown", nil},
		{"empty", "", fileutil.ErrExtensionEmpty},
		{"no dot", "md", fileutil.ErrExtensionNoDot},
		{"slash", "./md", fileutil.ErrExtensionPathTraversal},
		{"backslash", ".\\md", fileutil.ErrExtensionPathTraversal},
		{"null byte", ".m\x00d", fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestHasExtension - Extension matching
// ---------------------------------------------------------------------------

func TestHasExtension(t *testing.T) {
	t.Parallel()

	exts := []string{".md", ".markdown", ".txt"}

	tests := []struct {
		path string
		want bool
	}{
		{"notes.md", true},
		{"NOTES.MD", true},
		{"dir/chat.markdown", true},
		{"log.txt", true},
		{"image.png", false},
		{"README", false},
		{"archive.md.bak", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.HasExtension(tt.path, exts); got != tt.want {
				t.Errorf("HasExtension(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFileExists - File existence
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()

	testFile := filepath.Join(tempDir, "test.txt")
	if err := os.WriteFile(testFile, []byte("content"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	testDir := filepath.Join(tempDir, "testdir")
	if err := os.Mkdir(testDir, 0o755); err != nil {
		t.Fatalf("failed to create test dir: %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"existing file returns true", testFile, true},
		{"directory returns false", testDir, false},
		{"nonexistent path returns false", filepath.Join(tempDir, "nonexistent"), false},
		{"empty path returns false", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.FileExists(tt.path); got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath / TestIsURL - Name versus path detection
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"work", false},
		{"my-config", false},
		{"./work.yaml", true},
		{"/etc/mathnorm.yaml", true},
		{`C:\cfg\work.yaml`, true},
		{"sub/dir", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsFilePath(tt.input); got != tt.want {
				t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"https://cdn.jsdelivr.net/npm/mathjax@3", true},
		{"http://localhost:8080/mj.js", true},
		{"ftp://example.com", false},
		{"/local/mathjax.js", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsURL(tt.input); got != tt.want {
				t.Errorf("IsURL(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
