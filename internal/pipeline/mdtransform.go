package pipeline

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/alnah/go-mathnorm/internal/markup"
)

// Math placeholders use Unicode Private Use Area characters.
// They pass through Goldmark unchanged, so formulas survive Markdown
// rendering untouched and are restored after HTML generation.
const (
	MathStartPlaceholder = "\uE000" // U+E000: Private Use Area start
	MathEndPlaceholder   = "\uE001" // U+E001: Private Use Area end
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress multiple blank lines to max 2
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)

	// A math placeholder, possibly wrapped in its own paragraph
	mathPlaceholder = regexp.MustCompile(`(?:<p>)?` + MathStartPlaceholder + `([0-9]+)` + MathEndPlaceholder + `(?:</p>)?`)
)

// ProtectedMath is Markdown with every formula replaced by a placeholder.
type ProtectedMath struct {
	Markdown string
	Formulas []Formula
}

// Formula is one protected math node in canonical form.
type Formula struct {
	TeX     string
	Display bool
}

// ProtectMath renders doc canonically with each formula swapped for a
// placeholder, then normalizes line endings and blank-line runs.
func ProtectMath(doc *markup.Document) ProtectedMath {
	var formulas []Formula
	md := markup.RenderWith(doc, func(m markup.MathSpan) string {
		formulas = append(formulas, Formula{TeX: m.Content, Display: m.Display})
		return MathStartPlaceholder + strconv.Itoa(len(formulas)-1) + MathEndPlaceholder
	})
	md = normalizeLineEndings(md)
	md = compressBlankLines(md)
	return ProtectedMath{Markdown: md, Formulas: formulas}
}

// RestoreMath replaces placeholders in rendered HTML with MathJax-ready
// delimiters. Display formulas standing alone in a paragraph become a div.
func RestoreMath(content string, formulas []Formula) string {
	return mathPlaceholder.ReplaceAllStringFunc(content, func(m string) string {
		sub := mathPlaceholder.FindStringSubmatch(m)
		i, err := strconv.Atoi(sub[1])
		if err != nil || i >= len(formulas) {
			return m
		}
		f := formulas[i]
		tex := html.EscapeString(f.TeX)
		opening, closing := openTag(m), closeTag(m)
		if f.Display && opening != "" && closing != "" {
			return `<div class="math display">\[` + tex + `\]</div>`
		}
		if f.Display {
			return opening + `<span class="math display">\[` + tex + `\]</span>` + closing
		}
		return opening + `<span class="math inline">\(` + tex + `\)</span>` + closing
	})
}

func openTag(m string) string {
	if strings.HasPrefix(m, "<p>") {
		return "<p>"
	}
	return ""
}

func closeTag(m string) string {
	if strings.HasSuffix(m, "</p>") {
		return "</p>"
	}
	return ""
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines limits consecutive blank lines to 2 maximum.
func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}
