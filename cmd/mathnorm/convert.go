package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	mathnorm "github.com/alnah/go-mathnorm"
	"github.com/alnah/go-mathnorm/internal/config"
	"github.com/alnah/go-mathnorm/internal/fileutil"
	"github.com/alnah/go-mathnorm/internal/logging"
)

// stdinName stands for standard input in arguments and --check output.
const stdinName = "-"

// ErrChangesFound reports that --check found text to normalize.
var ErrChangesFound = errors.New("normalization would change input")

// runConvert normalizes stdin, a file, or a directory tree.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stdout)
	if err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: convert takes at most one input, got %d", ErrUsage, len(positional))
	}
	if err := validateConvertFlags(flags); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, loadEnvConfig())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	mergeConvertFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	normalizer := newNormalizer(cfg, commandLogger(env.Stderr, flags.common))

	input := stdinName
	if len(positional) == 1 {
		input = positional[0]
	}
	if input == stdinName {
		if flags.inPlace {
			return fmt.Errorf("%w: --in-place needs a file or directory", ErrUsage)
		}
		return convertStream(normalizer, env.Stdin, stdinName, flags, env)
	}

	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	toWriter := flags.output == stdinName || (flags.output == "" && !flags.inPlace && !flags.check)
	if !info.IsDir() && toWriter {
		f, err := os.Open(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		defer f.Close()
		return convertStream(normalizer, f, input, flags, env)
	}
	if info.IsDir() && flags.output == "" && !flags.inPlace && !flags.check {
		return fmt.Errorf("%w: directory input needs -o <dir>, --in-place or --check", ErrUsage)
	}

	files, err := discoverFiles(input, flags.output, flags.inPlace, cfg.Convert.Extensions)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	workers := mathnorm.ResolvePoolSize(cfg.Convert.Workers)
	results := convertBatch(ctx, normalizer, files, workers, flags.check)

	summary := printResults(results, flags, env)
	if summary.Failed > 0 {
		return fmt.Errorf("%d conversion(s) failed", summary.Failed)
	}
	if flags.check && summary.Changed > 0 {
		return ErrChangesFound
	}
	return nil
}

// validateConvertFlags rejects contradictory output modes.
func validateConvertFlags(flags *convertFlags) error {
	if flags.inPlace && flags.output != "" {
		return fmt.Errorf("%w: --in-place and --output are mutually exclusive", ErrUsage)
	}
	if flags.check && (flags.inPlace || flags.output != "") {
		return fmt.Errorf("%w: --check does not write output", ErrUsage)
	}
	return nil
}

// mergeConvertFlags applies CLI flags over config values (CLI wins).
func mergeConvertFlags(flags *convertFlags, cfg *config.Config) {
	if flags.workers != 0 {
		cfg.Convert.Workers = flags.workers
	}
	if flags.noFallback {
		cfg.Convert.NoFallback = true
	}
}

// convertStream normalizes one stream. Output goes to -o when it names a
// file, otherwise to stdout. With --check nothing is written and the name
// is listed if the text would change.
func convertStream(n TextNormalizer, r io.Reader, name string, flags *convertFlags, env *Environment) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	text := string(data)
	result := n.NormalizeResult(text)

	if flags.check {
		if !result.Changed(text) {
			return nil
		}
		if !flags.common.quiet {
			fmt.Fprintln(env.Stdout, name)
		}
		return ErrChangesFound
	}

	if flags.output != "" && flags.output != stdinName {
		if err := fileutil.WriteFileAtomic(flags.output, []byte(result.Text), filePermissions); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
		return nil
	}

	if _, err := io.WriteString(env.Stdout, result.Text); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// newNormalizer builds a normalizer from the convert config.
func newNormalizer(cfg *config.Config, logger zerolog.Logger) *mathnorm.Normalizer {
	return mathnorm.New(
		mathnorm.WithFallback(!cfg.Convert.NoFallback),
		mathnorm.WithLogger(logger),
	)
}

// commandLogger returns a console logger for one-shot commands: warnings
// by default, debug with --verbose, errors only with --quiet.
func commandLogger(w io.Writer, c commonFlags) zerolog.Logger {
	level := "warn"
	switch {
	case c.quiet:
		level = "error"
	case c.verbose:
		level = "debug"
	}
	// Error ignored: level and format are constants.
	l, _ := logging.New(w, level, logging.FormatConsole)
	return l
}
