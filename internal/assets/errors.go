package assets

import "errors"

// Sentinel errors for theme loading.
var (
	// ErrThemeNotFound indicates the requested theme does not exist.
	ErrThemeNotFound = errors.New("theme not found")

	// ErrInvalidThemeName indicates the name contains path separators,
	// dots or traversal sequences.
	ErrInvalidThemeName = errors.New("invalid theme name")

	// ErrInvalidBasePath indicates the themes directory is not a readable directory.
	ErrInvalidBasePath = errors.New("invalid themes directory")

	// ErrAssetRead indicates an I/O error occurred while reading a theme file.
	ErrAssetRead = errors.New("failed to read theme")

	// ErrPathTraversal indicates an attempt to access files outside the themes directory.
	ErrPathTraversal = errors.New("path traversal detected")
)
