package pipeline

import (
	"errors"
	"regexp"
	"strings"
)

// ErrFallbackCorrupt indicates the fallback pass changed text other than
// math delimiters and surrounding whitespace.
var ErrFallbackCorrupt = errors.New("fallback changed text outside math delimiters")

// Precompiled fallback patterns.
var (
	// Fenced code block delimiter (backticks or tildes), up to 3 spaces of indent
	fencedCodeBlock = regexp.MustCompile("^ {0,3}(```|~~~)")

	// Inline code spans (single or double backticks, one line)
	inlineCodeSpan = regexp.MustCompile("``[^\n]+?``|`[^`\n]+`")

	// \[ ... \] across lines, shortest match
	displayBackslash = regexp.MustCompile(`(?s)\\\[(.+?)\\\]`)

	// \( ... \), shortest match
	inlineBackslash = regexp.MustCompile(`(?s)\\\((.+?)\\\)`)

	// $ ... $ on one line
	dollarSpan = regexp.MustCompile(`\$([^$\n]+)\$`)

	// Characters the fallback may add, remove or move
	delimiterChars = regexp.MustCompile(`[\s$\\()\[\]]`)
)

// ConvertFallback rewrites math delimiters with a fixed set of patterns. It
// only handles \[..\], \(..\) and padded $ .. $, never bare brackets or
// parentheses, and skips fenced code and inline code spans. The result is
// checked to differ from content only in delimiters and whitespace.
func ConvertFallback(content string) (string, error) {
	out := processProseChunks(content, convertProse)
	if !sameOutsideDelimiters(content, out) {
		return "", ErrFallbackCorrupt
	}
	return out, nil
}

// convertProse applies the patterns to text outside code spans.
func convertProse(text string) string {
	return replaceOutsideCodeSpans(text, func(s string) string {
		s = displayBackslash.ReplaceAllStringFunc(s, func(m string) string {
			inner := strings.TrimSpace(m[2 : len(m)-2])
			if inner == "" || hasBlankLine(inner) {
				return m
			}
			return "$$\n" + inner + "\n$$"
		})
		s = inlineBackslash.ReplaceAllStringFunc(s, func(m string) string {
			inner := strings.TrimSpace(m[2 : len(m)-2])
			if inner == "" || hasBlankLine(inner) {
				return m
			}
			return "$" + inner + "$"
		})
		return trimDollarPadding(s)
	})
}

// trimDollarPadding rewrites "$ x $" as "$x$". Escaped dollars, $$ and a
// closing $ followed by a digit are left alone.
func trimDollarPadding(s string) string {
	matches := dollarSpan.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		inner := s[m[2]:m[3]]
		if start > 0 && (s[start-1] == '$' || s[start-1] == '\\') {
			continue
		}
		if end < len(s) && (s[end] == '$' || (s[end] >= '0' && s[end] <= '9')) {
			continue
		}
		trimmed := strings.TrimSpace(inner)
		if trimmed == "" || !isPadded(inner) || strings.HasSuffix(trimmed, "\\") {
			continue
		}
		b.WriteString(s[last:start])
		b.WriteString("$" + trimmed + "$")
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

// isPadded reports whether s starts and ends with whitespace.
func isPadded(s string) bool {
	return strings.TrimLeft(s, " \t") != s && strings.TrimRight(s, " \t") != s
}

// replaceOutsideCodeSpans applies fn to the text between code spans.
func replaceOutsideCodeSpans(text string, fn func(string) string) string {
	spans := inlineCodeSpan.FindAllStringIndex(text, -1)
	if spans == nil {
		return fn(text)
	}

	var b strings.Builder
	last := 0
	for _, sp := range spans {
		b.WriteString(fn(text[last:sp[0]]))
		b.WriteString(text[sp[0]:sp[1]])
		last = sp[1]
	}
	b.WriteString(fn(text[last:]))
	return b.String()
}

// processProseChunks applies fn to each run of lines outside fenced code
// blocks. Fence lines and their contents pass through unchanged.
func processProseChunks(content string, fn func(string) string) string {
	lines := strings.SplitAfter(content, "\n")
	var b strings.Builder
	var prose strings.Builder

	flush := func() {
		if prose.Len() > 0 {
			b.WriteString(fn(prose.String()))
			prose.Reset()
		}
	}

	inCodeBlock := false
	for _, line := range lines {
		if fencedCodeBlock.MatchString(line) {
			if !inCodeBlock {
				flush()
			}
			inCodeBlock = !inCodeBlock
			b.WriteString(line)
			continue
		}
		if inCodeBlock {
			b.WriteString(line)
			continue
		}
		prose.WriteString(line)
	}
	flush()
	return b.String()
}

// sameOutsideDelimiters reports whether a and b are equal once delimiter
// characters and whitespace are removed.
func sameOutsideDelimiters(a, b string) bool {
	return delimiterChars.ReplaceAllString(a, "") == delimiterChars.ReplaceAllString(b, "")
}

// hasBlankLine reports whether s contains an empty or whitespace-only line.
func hasBlankLine(s string) bool {
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			return true
		}
	}
	return false
}
