package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage wraps flag parsing and argument errors.
var ErrUsage = errors.New("invalid usage")

// unsetInt marks an int flag that was not given, where 0 is meaningful.
const unsetInt = -1

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common     commonFlags
	output     string
	inPlace    bool
	workers    int
	check      bool
	noFallback bool
}

// watchFlags holds flags for the watch command.
type watchFlags struct {
	common    commonFlags
	interval  string
	maxBytes  int
	logLevel  string
	logFormat string
}

// previewFlags holds flags for the preview command.
type previewFlags struct {
	common     commonFlags
	output     string
	title      string
	css        string
	mathjaxURL string
	theme      string
	themesDir  string
	noMathJax  bool
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	config string
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-file paths and timing")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting and
// prints usage to w on --help.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { usage(w) }
	return fs
}

// parseErr wraps a pflag error. flag.ErrHelp passes through unchanged.
func parseErr(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, w io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newFlagSet("convert", w, printConvertUsage)

	fs.StringVarP(&f.output, "output", "o", "", "output file, or directory for directory input")
	fs.BoolVarP(&f.inPlace, "in-place", "i", false, "rewrite input files in place")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.check, "check", false, "list files that would change and exit 1 if any")
	fs.BoolVar(&f.noFallback, "no-fallback", false, "return text unchanged when parsing fails")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, parseErr(err)
	}
	return f, fs.Args(), nil
}

// parseWatchFlags parses watch command flags.
func parseWatchFlags(args []string, w io.Writer) (*watchFlags, []string, error) {
	f := &watchFlags{}
	fs := newFlagSet("watch", w, printWatchUsage)

	fs.StringVar(&f.interval, "interval", "", "clipboard polling interval (default 500ms)")
	fs.IntVar(&f.maxBytes, "max-bytes", unsetInt, "skip clipboard text larger than this (0 = no limit)")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn, error or off")
	fs.StringVar(&f.logFormat, "log-format", "", "console or json")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, parseErr(err)
	}
	return f, fs.Args(), nil
}

// parsePreviewFlags parses preview command flags.
func parsePreviewFlags(args []string, w io.Writer) (*previewFlags, []string, error) {
	f := &previewFlags{}
	fs := newFlagSet("preview", w, printPreviewUsage)

	fs.StringVarP(&f.output, "output", "o", "", "output HTML file (- = stdout)")
	fs.StringVar(&f.title, "title", "", "page title (default: first heading)")
	fs.StringVar(&f.css, "css", "", "extra stylesheet file")
	fs.StringVar(&f.mathjaxURL, "mathjax-url", "", "MathJax script URL")
	fs.BoolVar(&f.noMathJax, "no-mathjax", false, "do not load MathJax")
	fs.StringVar(&f.theme, "theme", "", "page theme: default, dark, none, or a name in --themes-dir")
	fs.StringVar(&f.themesDir, "themes-dir", "", "directory of {name}.css themes")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, parseErr(err)
	}
	return f, fs.Args(), nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, w io.Writer) (*doctorFlags, error) {
	f := &doctorFlags{}
	fs := newFlagSet("doctor", w, printDoctorUsage)

	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVar(&f.json, "json", false, "print results as JSON")

	if err := fs.Parse(args); err != nil {
		return nil, parseErr(err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: doctor takes no arguments", ErrUsage)
	}
	return f, nil
}
