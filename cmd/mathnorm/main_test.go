package main

// Notes:
// - runMain: we test dispatch, exit codes and where messages go. Command
//   behavior is covered by the per-command tests.
// - runHelp: we test each command's usage and unknown topics.
// - hasVerboseFlag: we test detection before and after "--".
// These are acceptable gaps: main itself (os.Exit, signals) is not run.

import (
	"context"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunMain - Command dispatch
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		stdin      string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no command", []string{"mathnorm"}, "", ExitUsage, "", "Usage: mathnorm"},
		{"unknown command", []string{"mathnorm", "frobnicate"}, "", ExitUsage, "", "unknown command: frobnicate"},
		{"version", []string{"mathnorm", "version"}, "", ExitSuccess, "mathnorm " + Version, ""},
		{"version flag", []string{"mathnorm", "--version"}, "", ExitSuccess, "mathnorm ", ""},
		{"help", []string{"mathnorm", "help"}, "", ExitSuccess, "Commands:", ""},
		{"help flag", []string{"mathnorm", "-h"}, "", ExitSuccess, "Commands:", ""},
		{"convert stdin", []string{"mathnorm", "convert"}, rawText, ExitSuccess, normalizedText, ""},
		{"convert help", []string{"mathnorm", "convert", "--help"}, "", ExitSuccess, "Usage: mathnorm convert", ""},
		{"convert check", []string{"mathnorm", "convert", "--check"}, rawText, ExitGeneral, "-\n", ""},
		{"convert bad flag", []string{"mathnorm", "convert", "--nope"}, "", ExitUsage, "", "mathnorm: invalid usage"},
		{"preview no input", []string{"mathnorm", "preview"}, "", ExitUsage, "", "exactly one input"},
		{"watch bad interval", []string{"mathnorm", "watch", "--interval", "x"}, "", ExitUsage, "", "hint:"},
		{"doctor", []string{"mathnorm", "doctor", "--json"}, "", ExitSuccess, `"status"`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(tt.stdin)
			code := runMain(context.Background(), tt.args, env)

			if code != tt.wantCode {
				t.Errorf("runMain(%v) = %d, want %d\nstderr: %s", tt.args, code, tt.wantCode, stderr.String())
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestRunMain_CheckIsQuietOnStderr(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv(rawText)
	runMain(context.Background(), []string{"mathnorm", "convert", "--check"}, env)
	if strings.Contains(stderr.String(), "mathnorm:") {
		t.Errorf("stderr = %q, want no error line for --check", stderr.String())
	}
}

// ---------------------------------------------------------------------------
// TestRunHelp - Per-command usage
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		topic    string
		wantCode int
		want     string
	}{
		{"convert", ExitSuccess, "--in-place"},
		{"watch", ExitSuccess, "--interval"},
		{"preview", ExitSuccess, "Built-in themes: dark, default"},
		{"doctor", ExitSuccess, "--json"},
		{"bogus", ExitUsage, "unknown command: bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv("")
			code := runHelp([]string{tt.topic}, env)
			if code != tt.wantCode {
				t.Errorf("runHelp(%s) = %d, want %d", tt.topic, code, tt.wantCode)
			}
			if out := stdout.String() + stderr.String(); !strings.Contains(out, tt.want) {
				t.Errorf("help output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestHasVerboseFlag - Pre-parse detection
// ---------------------------------------------------------------------------

func TestHasVerboseFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"convert", "-v"}, true},
		{[]string{"watch", "--verbose"}, true},
		{[]string{"convert", "--", "-v"}, false},
		{[]string{"convert", "file.md"}, false},
		{nil, false},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			t.Parallel()
			if got := hasVerboseFlag(tt.args); got != tt.want {
				t.Errorf("hasVerboseFlag(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}
