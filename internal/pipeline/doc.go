// Package pipeline holds the text passes that surround the structured
// normalizer:
//   - the pattern-based fallback used when structured parsing fails
//   - math protection with Private Use Area placeholders
//   - Markdown to HTML preview via Goldmark, with MathJax delimiters
//
// The structured parser itself lives in internal/markup.
package pipeline
