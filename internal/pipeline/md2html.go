package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/alnah/go-mathnorm/internal/markup"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// DefaultMathJaxURL is the MathJax bundle loaded by preview pages.
const DefaultMathJaxURL = "https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-chtml.js"

// highlightStyle names the chroma style used for code block CSS.
const highlightStyle = "github"

// htmlTemplate wraps Goldmark's fragment output in a complete HTML5 document.
// Arguments: title, stylesheet, head scripts, body.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
%s</style>
%s</head>
<body>
%s
</body>
</html>`

// PreviewOptions controls the page produced by Preview.
type PreviewOptions struct {
	Title      string // Page title; defaults to the first heading, then "Preview"
	MathJax    bool   // Load MathJax when the page has formulas
	MathJaxURL string // Overrides DefaultMathJaxURL
	CSS        string // Extra stylesheet appended after the highlight CSS
	SourceDir  string // Base for relative image and link paths
}

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// GoldmarkConverter converts Markdown to an HTML fragment using goldmark.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions and syntax highlighting.
func NewGoldmarkConverter() *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // CSS classes, stylesheet emitted once in <head>
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(), // Chat text treats newlines as line breaks
			gmhtml.WithXHTML(),
			// WithUnsafe is not used: formulas travel as placeholders.
		),
	)
	return &GoldmarkConverter{md: md}
}

// ToHTML converts Markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// Preview renders a normalized document as a standalone HTML page. Math is
// kept out of Markdown processing and emitted with \( \) and \[ \]
// delimiters for MathJax.
func Preview(ctx context.Context, conv HTMLConverter, doc *markup.Document, opts PreviewOptions) (string, error) {
	protected := ProtectMath(doc)

	body, err := conv.ToHTML(ctx, protected.Markdown)
	if err != nil {
		return "", err
	}
	body = RestoreMath(body, protected.Formulas)

	body, err = ResolveAssets(body, opts.SourceDir)
	if err != nil {
		return "", fmt.Errorf("%w: resolving paths: %v", ErrHTMLConversion, err)
	}

	css, err := highlightCSS()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	title := opts.Title
	if title == "" {
		title = headingTitle(body)
	}
	if title == "" {
		title = "Preview"
	}

	var scripts string
	if opts.MathJax && len(protected.Formulas) > 0 {
		url := opts.MathJaxURL
		if url == "" {
			url = DefaultMathJaxURL
		}
		scripts = fmt.Sprintf("<script id=\"MathJax-script\" async src=\"%s\"></script>\n", html.EscapeString(url))
	}

	page := fmt.Sprintf(htmlTemplate, html.EscapeString(title), css, scripts, body)
	return InjectCSS(ctx, page, opts.CSS), nil
}

// highlightCSS returns the stylesheet for chroma's class-based output.
func highlightCSS() (string, error) {
	var b strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&b, styles.Get(highlightStyle)); err != nil {
		return "", err
	}
	return b.String(), nil
}
