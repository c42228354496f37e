package assets

// Theme names with special meaning.
const (
	DefaultTheme = "default" // Used when no theme is configured
	NoTheme      = "none"    // Disables theming
)

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadTheme loads a built-in theme by name. NoTheme yields an empty
// stylesheet and an empty name yields DefaultTheme.
func LoadTheme(name string) (string, error) {
	return loadNamed(defaultLoader, name)
}

// loadNamed applies the special names before asking loader.
func loadNamed(loader ThemeLoader, name string) (string, error) {
	switch name {
	case NoTheme:
		return "", nil
	case "":
		name = DefaultTheme
	}
	return loader.LoadTheme(name)
}
