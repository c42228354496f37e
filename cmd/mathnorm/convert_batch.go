package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fatih/color"

	mathnorm "github.com/alnah/go-mathnorm"
	"github.com/alnah/go-mathnorm/internal/fileutil"
	"github.com/alnah/go-mathnorm/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrReadInput   = errors.New("failed to read input")
	ErrWriteOutput = errors.New("failed to write output")
)

// TextNormalizer is the interface for the normalization service.
type TextNormalizer interface {
	NormalizeResult(text string) mathnorm.Result
}

// Compile-time interface implementation check.
var _ TextNormalizer = (*mathnorm.Normalizer)(nil)

// Status words, colored when stdout is a terminal.
var (
	statusFailed     = color.New(color.FgRed, color.Bold).SprintFunc()
	statusNormalized = color.New(color.FgGreen).SprintFunc()
	statusFallback   = color.New(color.FgYellow).SprintFunc()
	statusUnchanged  = color.New(color.Faint).SprintFunc()
)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Changed    bool
	Path       mathnorm.Path
	Err        error
	Duration   time.Duration
}

// convertBatch normalizes files concurrently with a fixed worker count.
// Results keep the order of files.
func convertBatch(ctx context.Context, n TextNormalizer, files []FileToConvert, workers int, check bool) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(max(workers, 1), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(n, files[idx], check)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile normalizes a single file and returns the result. Unchanged
// in-place files are not rewritten.
func convertFile(n TextNormalizer, f FileToConvert, check bool) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadInput, err)
		result.Duration = time.Since(start)
		return result
	}

	text := string(content)
	normalized := n.NormalizeResult(text)
	result.Changed = normalized.Changed(text)
	result.Path = normalized.Path

	if check || f.OutputPath == "" || (!result.Changed && f.OutputPath == f.InputPath) {
		result.Duration = time.Since(start)
		return result
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		result.Err = fmt.Errorf("creating output directory: %w%s", err, hints.ForOutputDirectory())
		result.Duration = time.Since(start)
		return result
	}

	if err := fileutil.WriteFileAtomic(f.OutputPath, []byte(normalized.Text), filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		result.Duration = time.Since(start)
		return result
	}

	result.Duration = time.Since(start)
	return result
}

// ResultSummary holds conversion counts.
type ResultSummary struct {
	Changed   int
	Unchanged int
	Failed    int
}

// countResults tallies changed, unchanged and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		switch {
		case r.Err != nil:
			summary.Failed++
		case r.Changed:
			summary.Changed++
		default:
			summary.Unchanged++
		}
	}
	return summary
}

// printResults outputs conversion results. With --check only the paths
// that would change are listed, one per line.
func printResults(results []ConversionResult, flags *convertFlags, env *Environment) ResultSummary {
	summary := countResults(results)
	quiet, verbose := flags.common.quiet, flags.common.verbose

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "%s %s: %v\n", statusFailed("FAILED"), r.InputPath, r.Err)
			continue
		}
		if quiet {
			continue
		}

		if flags.check {
			if r.Changed {
				fmt.Fprintln(env.Stdout, r.InputPath)
			}
			continue
		}

		status := statusUnchanged("unchanged")
		switch {
		case r.Path == mathnorm.PathFallback:
			status = statusFallback("fallback")
		case r.Changed:
			status = statusNormalized("normalized")
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s %s -> %s (%v)\n", status, r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "%s %s\n", status, r.OutputPath)
		}
	}

	if !quiet && !flags.check && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d normalized, %d unchanged, %d failed\n", summary.Changed, summary.Unchanged, summary.Failed)
	}

	return summary
}
