package assets

import (
	"errors"
)

// Resolver looks themes up in a user directory first and falls back to the
// built-in themes when the name is not found there.
type Resolver struct {
	custom   ThemeLoader // nil if no directory configured
	embedded ThemeLoader
}

// NewResolver creates a Resolver. An empty dir uses built-in themes only.
// Returns error if dir is set but not a readable directory.
func NewResolver(dir string) (*Resolver, error) {
	resolver := &Resolver{
		embedded: NewEmbeddedLoader(),
	}

	if dir != "" {
		fsLoader, err := NewFilesystemLoader(dir)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// Load returns the stylesheet for name, honoring DefaultTheme and NoTheme.
func (r *Resolver) Load(name string) (string, error) {
	return loadNamed(r, name)
}

// LoadTheme loads a theme, trying the user directory first if configured.
func (r *Resolver) LoadTheme(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.LoadTheme(name)
	}

	content, err := r.custom.LoadTheme(name)
	if err == nil {
		return content, nil
	}

	// Only fall back for "not found" errors, not validation or I/O errors
	if !errors.Is(err, ErrThemeNotFound) {
		return "", err
	}

	return r.embedded.LoadTheme(name)
}

// HasCustomLoader returns true if a themes directory is configured.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ ThemeLoader = (*Resolver)(nil)
