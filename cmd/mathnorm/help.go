package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-mathnorm/internal/assets"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mathnorm <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rewrite chat-style math (\\( \\), \\[ \\], bare [ ] blocks, $ x $) as $..$ and $$ blocks.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Normalize stdin, a file, or a directory")
	fmt.Fprintln(w, "  watch      Normalize the clipboard whenever it changes")
	fmt.Fprintln(w, "  preview    Render normalized text as HTML with MathJax")
	fmt.Fprintln(w, "  doctor     Check clipboard access and configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mathnorm help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mathnorm convert [input|-] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Normalize math delimiters. Reads stdin when input is omitted or \"-\".")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    File or directory (directories are scanned for .md, .markdown, .txt)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (file input) or directory (directory input)")
	fmt.Fprintln(w, "  -i, --in-place            Rewrite input files atomically")
	fmt.Fprintln(w, "      --check               List files that would change; exit 1 if any")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --no-fallback         Leave text unchanged when parsing fails")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show per-file paths and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  pbpaste | mathnorm convert | pbcopy")
	fmt.Fprintln(w, "  mathnorm convert notes.md -o notes.fixed.md")
	fmt.Fprintln(w, "  mathnorm convert ./chats -i")
	fmt.Fprintln(w, "  mathnorm convert ./chats --check")
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mathnorm watch [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Poll the clipboard and write back normalized text until interrupted.")
	fmt.Fprintln(w, "Text already on the clipboard when watch starts is left alone.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --interval <d>        Polling interval (default 500ms, minimum 50ms)")
	fmt.Fprintln(w, "      --max-bytes <n>       Skip larger clipboard text (0 = no limit)")
	fmt.Fprintln(w, "      --log-level <s>       debug, info, warn, error, off")
	fmt.Fprintln(w, "      --log-format <s>      console or json")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only log errors")
	fmt.Fprintln(w, "  -v, --verbose             Log every clipboard change")
}

// printPreviewUsage prints usage for the preview command.
func printPreviewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mathnorm preview <input|-> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Normalize input and render it as a standalone HTML page.")
	fmt.Fprintln(w, "Writes <input>.html next to the input unless -o is given.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output HTML file (- = stdout)")
	fmt.Fprintln(w, "      --title <s>           Page title (default: first heading)")
	fmt.Fprintln(w, "      --theme <name>        default, dark, none, or a theme in --themes-dir")
	fmt.Fprintln(w, "      --themes-dir <dir>    Directory of <name>.css themes")
	fmt.Fprintln(w, "      --css <path>          Extra stylesheet, added after the theme")
	fmt.Fprintln(w, "      --mathjax-url <url>   MathJax script URL")
	fmt.Fprintln(w, "      --no-mathjax          Do not load MathJax")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Built-in themes: %s (or %q for none)\n", strings.Join(assets.Names(), ", "), assets.NoTheme)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mathnorm doctor [--json] [-c config]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check clipboard access, environment and configuration.")
}

// runHelp prints help for a command, or the main usage.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "watch":
		printWatchUsage(env.Stdout)
	case "preview":
		printPreviewUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
