package markup

import (
	"regexp"
	"strings"
)

// Delimiter policy.
//
// Math is recognized in exactly these forms:
//
//	block   a line holding only "[" (up to 3 spaces of indent), closed by a
//	        line holding only "]"; interior trimmed, non-empty and free of
//	        "$$" lines
//	block   "$$" lines, already canonical, passed through
//	inline  \[ .. \]  display, closed by the first unescaped \]
//	inline  \( .. \)  closed by the first unescaped \), never across a blank
//	        line and not followed by a digit
//	inline  $ .. $    closer on the same line, unescaped, not part of $$ and
//	        not followed by a digit; an opener followed by a digit needs a
//	        closer that is not preceded by whitespace
//	inline  $$ .. $$  already canonical, passed through
//
// The digit rules keep prices such as "$5 and $10" as text: a converted
// \(x\) followed by a digit would gain a closing $ the reader skips.
//
// \( .. \) and \[ .. \] keep their source form when the formula holds a $,
// ends in an escaping backslash, touches a $ or another \( or \[, or shares
// a line with a $ that is not part of any math.
//
// Bare ( .. ) and [ .. ] inside text are never math. Nothing is recognized
// inside code spans, fenced or indented code, or link targets. Escaped
// delimiters (\$, \\[) are text.

const (
	// maxIndent is the deepest indentation at which a line can still open a block.
	maxIndent = 3
	// maxNesting caps emphasis and link label recursion.
	maxNesting = 16
	// maxContainerDepth caps list and quote nesting.
	maxContainerDepth = 32
	// maxLabelLen bounds the search for the end of a link label.
	maxLabelLen = 1000
	// maxTargetLen bounds the search for the end of a link target.
	maxTargetLen = 2048
)

// Precompiled block patterns, matched against a line without its terminator.
var (
	atxHeading    = regexp.MustCompile(`^ {0,3}#{1,6}(?:[ \t]|$)`)
	thematicBreak = regexp.MustCompile(`^ {0,3}(?:(?:-[ \t]*){3,}|(?:\*[ \t]*){3,}|(?:_[ \t]*){3,})$`)
	quoteMarker   = regexp.MustCompile(`^ {0,3}> ?`)
	listMarker    = regexp.MustCompile(`^( {0,3})([-+*]|[0-9]{1,9}[.)])([ \t]+|$)`)
)

// lineBody strips the line terminator.
func lineBody(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// lineEnding returns the terminator of line ("" for the last line of input).
func lineEnding(line string) string {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return "\r\n"
	case strings.HasSuffix(line, "\n"):
		return "\n"
	default:
		return ""
	}
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func leadingSpaces(s string) int {
	n := 0
	for n < len(s) && s[n] == ' ' {
		n++
	}
	return n
}

// indentWidth returns the column of the first non-blank character, with
// tabs advancing to the next multiple of four.
func indentWidth(s string) int {
	col := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ':
			col++
		case '\t':
			col += 4 - col%4
		default:
			return col
		}
	}
	return col
}

// stripIndent removes leading whitespace up to column w. It reports false
// when a non-blank character appears first.
func stripIndent(s string, w int) (prefix string, ok bool) {
	col := 0
	i := 0
	for col < w && i < len(s) {
		switch s[i] {
		case ' ':
			col++
		case '\t':
			col += 4 - col%4
		default:
			return "", false
		}
		i++
	}
	if col < w {
		return "", false
	}
	return s[:i], true
}

// isLoneMarker reports whether line holds only marker, indented by at most
// three spaces and followed by optional spaces or tabs.
func isLoneMarker(line, marker string) bool {
	body := lineBody(line)
	n := leadingSpaces(body)
	if n > maxIndent {
		return false
	}
	return strings.TrimRight(body[n:], " \t") == marker
}

func isBlockMathOpen(line string) bool  { return isLoneMarker(line, "[") }
func isBlockMathClose(line string) bool { return isLoneMarker(line, "]") }
func isDisplayFence(line string) bool   { return isLoneMarker(line, "$$") }

// fenceOpen returns the fence run of a ``` or ~~~ opening line.
func fenceOpen(line string) (string, bool) {
	body := lineBody(line)
	n := leadingSpaces(body)
	if n > maxIndent {
		return "", false
	}
	rest := body[n:]
	if rest == "" || (rest[0] != '`' && rest[0] != '~') {
		return "", false
	}
	c := rest[0]
	k := 0
	for k < len(rest) && rest[k] == c {
		k++
	}
	if k < 3 {
		return "", false
	}
	if c == '`' && strings.IndexByte(rest[k:], '`') >= 0 {
		return "", false
	}
	return rest[:k], true
}

// closesFence reports whether line closes a fence opened with marker.
func closesFence(line, marker string) bool {
	body := lineBody(line)
	n := leadingSpaces(body)
	if n > maxIndent {
		return false
	}
	rest := strings.TrimRight(body[n:], " \t")
	if len(rest) < len(marker) {
		return false
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] != marker[0] {
			return false
		}
	}
	return true
}

// listItem describes a list marker line.
type listItem struct {
	family string // "-", "+", "*", "." or ")"
	prefix int    // bytes of the line taken by indent, marker and spacing
	width  int    // content indent of continuation lines
	empty  bool   // nothing follows the marker
}

func parseListItem(line string) (listItem, bool) {
	body := lineBody(line)
	m := listMarker.FindStringSubmatch(body)
	if m == nil {
		return listItem{}, false
	}
	indent, marker, spacing := m[1], m[2], m[3]
	it := listItem{family: marker[len(marker)-1:]}
	base := len(indent) + len(marker)
	switch {
	case spacing == "":
		it.empty = true
		it.prefix = base
		it.width = base + 1
	case strings.TrimSpace(body[base:]) == "":
		it.empty = true
		it.prefix = base
		it.width = base + 1
	case indentWidth(spacing) > 4:
		it.prefix = base + 1
		it.width = base + 1
	default:
		it.prefix = base + len(spacing)
		it.width = base + indentWidth(spacing)
	}
	return it, true
}

// interruptsParagraph reports whether line starts a block that ends the
// paragraph above it.
func interruptsParagraph(line string) bool {
	body := lineBody(line)
	if _, ok := fenceOpen(line); ok {
		return true
	}
	if isBlockMathOpen(line) || isDisplayFence(line) {
		return true
	}
	if atxHeading.MatchString(body) || thematicBreak.MatchString(body) || quoteMarker.MatchString(body) {
		return true
	}
	if it, ok := parseListItem(line); ok && !it.empty {
		marker := strings.TrimLeft(body, " ")
		// Ordered lists interrupt only when they start at 1.
		if it.family == "." || it.family == ")" {
			return strings.HasPrefix(marker, "1.") || strings.HasPrefix(marker, "1)")
		}
		return true
	}
	return false
}

func isASCIIPunct(c byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c) >= 0
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isAlnum(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// hasBlankLine reports whether s contains an empty or whitespace-only line
// between two line breaks.
func hasBlankLine(s string) bool {
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			return false
		}
		s = s[i+1:]
		j := strings.IndexByte(s, '\n')
		if j < 0 {
			return false
		}
		if strings.TrimSpace(s[:j]) == "" {
			return true
		}
	}
}
