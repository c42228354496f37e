package assets

import (
	"fmt"
	"strings"
)

// ValidateThemeName checks that a theme name is safe for use as a filename.
// Returns ErrInvalidThemeName if the name is empty or contains path separators,
// dots (which could allow extension manipulation), or traversal characters.
func ValidateThemeName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidThemeName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidThemeName, name)
	}
	return nil
}
