package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-mathnorm/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	level := "warn"
	if hasVerboseFlag(os.Args[1:]) {
		level = "debug"
	}
	// Error ignored: the arguments are constants.
	_ = logging.Setup(os.Stderr, level, logging.FormatConsole)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logging.Debug().Msgf(format, args...)
	}))

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// runMain dispatches to a command and returns the process exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	warnUnknownEnvVars(env.Stderr)

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "convert":
		return report(env.Stderr, runConvert(ctx, rest, env))
	case "watch":
		return report(env.Stderr, runWatch(ctx, rest, env))
	case "preview":
		return report(env.Stderr, runPreview(ctx, rest, env))
	case "doctor":
		return runDoctor(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "mathnorm %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// report prints err and maps it to an exit code. --help is a success.
func report(w io.Writer, err error) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if !errors.Is(err, ErrChangesFound) {
		fmt.Fprintf(w, "mathnorm: %v\n", err)
	}
	return exitCodeFor(err)
}

// hasVerboseFlag reports whether args request verbose output, before any
// command parses its own flags.
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}
