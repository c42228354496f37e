package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mathnorm/internal/fileutil"
	"github.com/alnah/go-mathnorm/internal/hints"
)

// ErrNoFiles indicates a directory scan found nothing to convert.
var ErrNoFiles = errors.New("no matching files found")

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string // Empty with --check
}

// discoverFiles lists the files to convert under inputPath. An explicit
// file is taken whatever its extension; a directory is walked for files
// matching extensions, skipping hidden directories.
func discoverFiles(inputPath, output string, inPlace bool, extensions []string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		outPath := output
		if inPlace {
			outPath = inputPath
		}
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != inputPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !fileutil.HasExtension(path, extensions) {
			return nil
		}
		files = append(files, FileToConvert{
			InputPath:  path,
			OutputPath: resolveOutputPath(path, output, inputPath, inPlace),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s%s", ErrNoFiles, inputPath, hints.ForNoFiles(extensions))
	}
	return files, nil
}

// resolveOutputPath mirrors inputPath's place under baseInputDir into
// outputDir. Returns inputPath for in-place rewrites and "" when nothing
// is written.
func resolveOutputPath(inputPath, outputDir, baseInputDir string, inPlace bool) string {
	if inPlace {
		return inputPath
	}
	if outputDir == "" {
		return ""
	}

	relPath, err := filepath.Rel(baseInputDir, inputPath)
	if err != nil {
		return filepath.Join(outputDir, filepath.Base(inputPath))
	}
	return filepath.Join(outputDir, relPath)
}
