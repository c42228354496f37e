package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	t.Run("valid directory", func(t *testing.T) {
		t.Parallel()

		loader, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		if loader == nil {
			t.Fatal("NewFilesystemLoader() returned nil")
		}
	})

	t.Run("empty path returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader("")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader(\"\") error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("nonexistent directory returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("file instead of directory returns error", func(t *testing.T) {
		t.Parallel()

		filePath := filepath.Join(t.TempDir(), "file.txt")
		if err := os.WriteFile(filePath, []byte("test"), 0o644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		_, err := NewFilesystemLoader(filePath)
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestFilesystemLoader_LoadTheme(t *testing.T) {
	t.Parallel()

	t.Run("loads existing theme", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		css := "body { color: red; }"
		if err := os.WriteFile(filepath.Join(dir, "custom.css"), []byte(css), 0o644); err != nil {
			t.Fatalf("failed to write CSS file: %v", err)
		}

		loader, err := NewFilesystemLoader(dir)
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		got, err := loader.LoadTheme("custom")
		if err != nil {
			t.Fatalf("LoadTheme() error = %v", err)
		}
		if got != css {
			t.Errorf("LoadTheme() = %q, want %q", got, css)
		}
	})

	t.Run("missing theme", func(t *testing.T) {
		t.Parallel()

		loader, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		if _, err := loader.LoadTheme("nope"); !errors.Is(err, ErrThemeNotFound) {
			t.Errorf("LoadTheme() error = %v, want ErrThemeNotFound", err)
		}
	})

	t.Run("symlink escaping directory", func(t *testing.T) {
		t.Parallel()

		outside := filepath.Join(t.TempDir(), "secret.css")
		if err := os.WriteFile(outside, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		dir := t.TempDir()
		if err := os.Symlink(outside, filepath.Join(dir, "evil.css")); err != nil {
			t.Skipf("symlinks unsupported: %v", err)
		}

		loader, err := NewFilesystemLoader(dir)
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		if _, err := loader.LoadTheme("evil"); !errors.Is(err, ErrPathTraversal) {
			t.Errorf("LoadTheme() error = %v, want ErrPathTraversal", err)
		}
	})
}
