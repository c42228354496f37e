package main

import (
	"errors"
	"os"

	"github.com/alnah/go-mathnorm/internal/assets"
	"github.com/alnah/go-mathnorm/internal/clipboard"
	"github.com/alnah/go-mathnorm/internal/config"
	"github.com/alnah/go-mathnorm/internal/fileutil"
)

// Exit codes for the mathnorm CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Success, or --check found nothing to change
	ExitGeneral   = 1 // General error, or --check found changes
	ExitUsage     = 2 // Invalid flags, config, or validation
	ExitIO        = 3 // File not found, permission denied
	ExitClipboard = 4 // No clipboard backend or clipboard access failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Clipboard errors (exit 4)
	if errors.Is(err, clipboard.ErrUnavailable) ||
		errors.Is(err, clipboard.ErrRead) ||
		errors.Is(err, clipboard.ErrWrite) {
		return ExitClipboard
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, assets.ErrAssetRead) ||
		errors.Is(err, ErrNoFiles) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, assets.ErrThemeNotFound) ||
		errors.Is(err, assets.ErrInvalidThemeName) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, assets.ErrPathTraversal) ||
		errors.Is(err, fileutil.ErrExtensionEmpty) ||
		errors.Is(err, fileutil.ErrExtensionNoDot) ||
		errors.Is(err, fileutil.ErrExtensionPathTraversal) {
		return ExitUsage
	}

	return ExitGeneral
}
