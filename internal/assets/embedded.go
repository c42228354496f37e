package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed themes/*.css
var themes embed.FS

// EmbeddedLoader loads the built-in themes.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadTheme loads a built-in theme by name.
func (e *EmbeddedLoader) LoadTheme(name string) (string, error) {
	if err := ValidateThemeName(name); err != nil {
		return "", err
	}

	content, err := themes.ReadFile("themes/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q (built-in: %s)", ErrThemeNotFound, name, strings.Join(Names(), ", "))
	}

	return string(content), nil
}

// Names lists the built-in themes, sorted.
func Names() []string {
	entries, err := fs.ReadDir(themes, "themes")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".css"))
	}
	sort.Strings(names)
	return names
}

// Compile-time interface check.
var _ ThemeLoader = (*EmbeddedLoader)(nil)
