// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-mathnorm/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForClipboardUnavailable returns hints for a missing clipboard backend on
// the given GOOS. Detects containers, SSH sessions and headless Linux.
func ForClipboardUnavailable(goos string) string {
	var hints []string

	switch {
	case IsInContainer():
		hints = append(hints, "containers have no clipboard; pipe text through 'mathnorm convert' instead")
	case os.Getenv("SSH_CONNECTION") != "":
		hints = append(hints, "SSH sessions have no clipboard; pipe text through 'mathnorm convert' instead")
	}

	if goos == "linux" {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			hints = append(hints, "no DISPLAY or WAYLAND_DISPLAY is set")
		}
		hints = append(hints, "install xclip, xsel or wl-clipboard")
	}

	return formatHints(hints)
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-mathnorm/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepathSlash(p), ".config/go-mathnorm") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForNoFiles returns a hint listing the extensions a directory scan looks for.
func ForNoFiles(extensions []string) string {
	if len(extensions) == 0 {
		return ""
	}
	return format("looked for " + strings.Join(extensions, ", ") + "; set convert.extensions in the config to change")
}

// ForInterval returns a hint about the duration syntax.
func ForInterval() string {
	return format("use a Go duration such as 500ms or 2s")
}

// filepathSlash normalizes Windows separators for substring checks.
func filepathSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
