package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mathnorm/internal/assets"
	"github.com/alnah/go-mathnorm/internal/config"
	"github.com/alnah/go-mathnorm/internal/fileutil"
	"github.com/alnah/go-mathnorm/internal/markup"
	"github.com/alnah/go-mathnorm/internal/pipeline"
)

// ErrReadCSS indicates the preview stylesheet could not be read.
var ErrReadCSS = errors.New("failed to read CSS file")

// runPreview normalizes one input and renders it as an HTML page.
func runPreview(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parsePreviewFlags(args, env.Stdout)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: preview takes exactly one input (use - for stdin)", ErrUsage)
	}
	input := positional[0]

	cfg, err := loadConfig(flags.common.config, loadEnvConfig())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	mergePreviewFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	text, sourceDir, err := readPreviewInput(input, env.Stdin)
	if err != nil {
		return err
	}

	css, err := previewCSS(cfg.Preview)
	if err != nil {
		return err
	}

	normalizer := newNormalizer(cfg, commandLogger(env.Stderr, flags.common))
	normalized := normalizer.NormalizeResult(text).Text

	// Parse only fails on text the normalizer returned unchanged; render
	// that as plain Markdown without math.
	doc, err := markup.Parse(normalized)
	if err != nil {
		doc = &markup.Document{Blocks: []markup.Block{&markup.Opaque{Source: normalized}}}
	}

	page, err := pipeline.Preview(ctx, pipeline.NewGoldmarkConverter(), doc, pipeline.PreviewOptions{
		Title:      cfg.Preview.Title,
		MathJax:    !cfg.Preview.NoMathJax,
		MathJaxURL: cfg.Preview.MathJaxURL,
		CSS:        css,
		SourceDir:  sourceDir,
	})
	if err != nil {
		return err
	}

	output := resolvePreviewOutput(input, flags.output)
	if output == stdinName {
		if _, err := io.WriteString(env.Stdout, page); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
		return nil
	}

	if err := fileutil.WriteFileAtomic(output, []byte(page), filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", output)
	}
	return nil
}

// mergePreviewFlags applies CLI flags over config values (CLI wins).
func mergePreviewFlags(flags *previewFlags, cfg *config.Config) {
	if flags.title != "" {
		cfg.Preview.Title = flags.title
	}
	if flags.css != "" {
		cfg.Preview.CSS = flags.css
	}
	if flags.mathjaxURL != "" {
		cfg.Preview.MathJaxURL = flags.mathjaxURL
	}
	if flags.noMathJax {
		cfg.Preview.NoMathJax = true
	}
	if flags.theme != "" {
		cfg.Preview.Theme = flags.theme
	}
	if flags.themesDir != "" {
		cfg.Preview.ThemesDir = flags.themesDir
	}
}

// readPreviewInput returns the input text and the directory relative
// paths resolve against. Stdin resolves nothing.
func readPreviewInput(input string, stdin io.Reader) (text, sourceDir string, err error) {
	if input == stdinName {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		return string(data), "", nil
	}

	data, err := os.ReadFile(input) // #nosec G304 -- user-provided path
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	return string(data), filepath.Dir(input), nil
}

// previewCSS returns the theme stylesheet followed by the extra one.
func previewCSS(cfg config.PreviewConfig) (string, error) {
	resolver, err := assets.NewResolver(cfg.ThemesDir)
	if err != nil {
		return "", err
	}
	theme, err := resolver.Load(cfg.Theme)
	if err != nil {
		return "", err
	}

	extra, err := readCSS(cfg.CSS)
	if err != nil {
		return "", err
	}

	switch {
	case theme == "":
		return extra, nil
	case extra == "":
		return theme, nil
	default:
		return theme + "\n" + extra, nil
	}
}

// readCSS loads the extra stylesheet. An empty path means none.
func readCSS(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadCSS, err)
	}
	return string(data), nil
}

// resolvePreviewOutput returns the page path: the -o value, stdout for
// stdin input, or the input path with an .html extension.
func resolvePreviewOutput(input, output string) string {
	if output != "" {
		return output
	}
	if input == stdinName {
		return stdinName
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".html"
}
