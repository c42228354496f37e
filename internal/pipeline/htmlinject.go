package pipeline

import (
	"context"
	"html"
	"regexp"
	"strings"
)

var (
	// First h1-h3 heading in rendered HTML
	headingPattern = regexp.MustCompile(`(?is)<h([1-3])[^>]*>(.*?)</h[1-3]>`)

	// Any HTML tag, for extracting heading text
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

// InjectCSS inserts a <style> block into a page.
// Tries </head> first, then <body>, then prepends to the HTML.
// The stylesheet is sanitized so it cannot close the style element.
func InjectCSS(ctx context.Context, page, css string) string {
	if css == "" || ctx.Err() != nil {
		return page
	}

	block := "<style>\n" + sanitizeCSS(css) + "\n</style>\n"
	lower := strings.ToLower(page)

	if idx := strings.Index(lower, "</head>"); idx != -1 {
		return page[:idx] + block + page[idx:]
	}
	if idx := strings.Index(lower, "<body"); idx != -1 {
		if end := strings.IndexByte(page[idx:], '>'); end != -1 {
			pos := idx + end + 1
			return page[:pos] + block + page[pos:]
		}
	}
	return block + page
}

// sanitizeCSS escapes "</" so user CSS cannot end the <style> block early.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// headingTitle returns the text of the first h1-h3 heading in an HTML
// fragment, or "" when there is none.
func headingTitle(body string) string {
	m := headingPattern.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	text := htmlTagPattern.ReplaceAllString(m[2], "")
	return strings.TrimSpace(html.UnescapeString(text))
}
