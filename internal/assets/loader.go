package assets

// ThemeLoader loads a preview stylesheet by name (without .css extension).
// Implementations return ErrThemeNotFound for unknown names and
// ErrInvalidThemeName for names that are not plain identifiers.
type ThemeLoader interface {
	LoadTheme(name string) (string, error)
}
