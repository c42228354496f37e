package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/alnah/go-mathnorm/internal/assets"
	"github.com/alnah/go-mathnorm/internal/config"
	"github.com/alnah/go-mathnorm/internal/hints"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string        `json:"status"` // "ready", "warnings", "errors"
	Clipboard clipboardInfo `json:"clipboard"`
	Env       envInfo       `json:"environment"`
	Config    configInfo    `json:"config"`
	Theme     themeInfo     `json:"theme"`
	Warnings  []string      `json:"warnings,omitempty"`
	Errors    []string      `json:"errors,omitempty"`

	effective []byte // YAML of the effective config, text output only
}

// clipboardInfo holds clipboard backend results.
type clipboardInfo struct {
	Available bool   `json:"available"`
	Readable  bool   `json:"readable"`
	Hint      string `json:"hint,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	SSH           bool   `json:"ssh"`
	Display       bool   `json:"display"`
}

// configInfo holds config resolution results.
type configInfo struct {
	Source string `json:"source"` // "defaults" or the name given
	Valid  bool   `json:"valid"`
}

// themeInfo holds preview theme resolution results.
type themeInfo struct {
	Name      string `json:"name"`
	ThemesDir string `json:"themes_dir,omitempty"`
	Custom    bool   `json:"custom"` // a themes directory is configured
	Loaded    bool   `json:"loaded"`
}

// runDoctor executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags.
func runDoctor(args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args, env.Stdout)
	if err != nil {
		return report(env.Stderr, err)
	}

	result := diagnose(flags.config, env)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// diagnose performs all diagnostic checks.
func diagnose(configName string, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	checkEnvironment(result)
	checkClipboard(result, env)
	if cfg := checkConfig(result, configName); cfg != nil {
		checkTheme(result, cfg.Preview)
	}

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}

	return result
}

// checkEnvironment detects containers, SSH sessions and a display server.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()
	result.Env.SSH = os.Getenv("SSH_CONNECTION") != ""
	result.Env.Display = result.Env.OS != "linux" ||
		os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""

	for _, name := range unknownEnvVars() {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Unknown environment variable %s (typo?)", name))
	}
}

// checkClipboard verifies that the clipboard backend exists and can be read.
func checkClipboard(result *doctorResult, env *Environment) {
	if !env.ClipboardAvailable() {
		result.Clipboard.Hint = strings.TrimPrefix(hints.ForClipboardUnavailable(result.Env.OS), "\n  hint: ")
		result.Errors = append(result.Errors,
			"No clipboard backend found; 'mathnorm watch' cannot run")
		return
	}
	result.Clipboard.Available = true

	if _, err := env.Clipboard.ReadAll(); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Clipboard read failed: %v", err))
		return
	}
	result.Clipboard.Readable = true
}

// checkConfig loads the effective config the way commands do. Returns nil
// when the config cannot be used.
func checkConfig(result *doctorResult, configName string) *config.Config {
	envCfg := loadEnvConfig()
	result.Config.Source = "defaults"
	if configName != "" {
		result.Config.Source = configName
	} else if envCfg.ConfigPath != "" {
		result.Config.Source = envCfg.ConfigPath
	}

	cfg, err := loadConfig(configName, envCfg)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Config: %v", err))
		return nil
	}
	result.Config.Valid = true

	if data, err := config.Marshal(cfg); err == nil {
		result.effective = data
	}
	return cfg
}

// checkTheme resolves the preview theme. Failures only affect preview, so
// they are warnings.
func checkTheme(result *doctorResult, cfg config.PreviewConfig) {
	result.Theme.Name = cfg.Theme
	if result.Theme.Name == "" {
		result.Theme.Name = assets.DefaultTheme
	}
	result.Theme.ThemesDir = cfg.ThemesDir

	resolver, err := assets.NewResolver(cfg.ThemesDir)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Themes directory: %v", err))
		return
	}
	result.Theme.Custom = resolver.HasCustomLoader()

	if _, err := resolver.Load(cfg.Theme); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Preview theme: %v", err))
		return
	}
	result.Theme.Loaded = true
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	// Explicit override (highest priority)
	if os.Getenv("MATHNORM_CONTAINER") == "1" {
		return true, "MATHNORM_CONTAINER=1"
	}
	// Docker
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn / general container indicator
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	// Kubernetes
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "mathnorm doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Clipboard")
	switch {
	case r.Clipboard.Readable:
		fmt.Fprintln(w, "  [OK] Backend found, readable")
	case r.Clipboard.Available:
		fmt.Fprintln(w, "  [WARN] Backend found, read failed")
	default:
		fmt.Fprintln(w, "  [ERROR] No backend")
		if r.Clipboard.Hint != "" {
			fmt.Fprintf(w, "          hint: %s\n", r.Clipboard.Hint)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.SSH {
		fmt.Fprintln(w, "  [OK] SSH session: detected")
	}
	if !r.Env.Display {
		fmt.Fprintln(w, "  [WARN] Display: none")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config")
	if r.Config.Valid {
		fmt.Fprintf(w, "  [OK] Loaded: %s\n", r.Config.Source)
		for _, line := range strings.Split(strings.TrimRight(string(r.effective), "\n"), "\n") {
			if line != "" {
				fmt.Fprintf(w, "       %s\n", line)
			}
		}
	} else {
		fmt.Fprintf(w, "  [ERROR] Not loaded: %s\n", r.Config.Source)
	}
	fmt.Fprintln(w)

	if r.Config.Valid {
		fmt.Fprintln(w, "Preview theme")
		source := "built-in"
		if r.Theme.Custom {
			source = "themes dir " + r.Theme.ThemesDir + ", then built-in"
		}
		if r.Theme.Loaded {
			fmt.Fprintf(w, "  [OK] %s (%s)\n", r.Theme.Name, source)
		} else {
			fmt.Fprintf(w, "  [WARN] %s not loaded (%s)\n", r.Theme.Name, source)
		}
		fmt.Fprintf(w, "       built-in: %s\n", strings.Join(assets.Names(), ", "))
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
