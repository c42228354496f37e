package markup

import "strings"

// MathSpan is handed to a RenderWith hook for every math node.
type MathSpan struct {
	// Canonical is the text the default renderer would write.
	Canonical string
	// Source is the original text of the node.
	Source  string
	Content string
	Display bool
}

// Render writes doc in the canonical dialect.
func Render(doc *Document) string {
	r := &renderer{spacing: true}
	return r.document(doc)
}

// RenderSource writes doc with every math node in its original form. For a
// document returned by Parse the result equals the input.
func RenderSource(doc *Document) string {
	r := &renderer{verbatim: true}
	return r.document(doc)
}

// RenderWith renders doc canonically but lets fn replace the text of each
// math node, including nodes that were already canonical.
func RenderWith(doc *Document, fn func(MathSpan) string) string {
	r := &renderer{spacing: true, hook: fn}
	return r.document(doc)
}

type renderer struct {
	verbatim bool
	spacing  bool
	hook     func(MathSpan) string
}

func (r *renderer) document(doc *Document) string {
	lb := &lineBuilder{}
	r.blocks(lb, doc.Blocks)
	var b strings.Builder
	for _, l := range lb.finish() {
		b.WriteString(l.text)
	}
	return b.String()
}

func (r *renderer) blocks(lb *lineBuilder, blocks []Block) {
	for i, blk := range blocks {
		m, converted := blk.(*BlockMath)
		converted = converted && !m.Canonical && !r.verbatim
		if converted && r.spacing && i > 0 && needsGap(blocks[i-1]) {
			lb.gap(m.EOL)
		}
		r.block(lb, blk)
		if converted && r.spacing && m.Trailing != "" && i+1 < len(blocks) && needsGap(blocks[i+1]) {
			lb.gap(m.EOL)
		}
	}
}

// needsGap reports whether b must be separated from adjacent block math by
// a blank line.
func needsGap(b Block) bool {
	switch b.(type) {
	case *Paragraph, *List, *Quote:
		return true
	}
	return false
}

func (r *renderer) block(lb *lineBuilder, blk Block) {
	switch b := blk.(type) {
	case *Paragraph:
		r.inlines(lb, b.Inlines)
	case *List:
		for _, item := range b.Items {
			lb.appendLines(r.container(item), item.lineCount())
		}
	case *Quote:
		lb.appendLines(r.container(b.Body), b.Body.lineCount())
	case *CodeBlock:
		lb.source(b.Source)
	case *Opaque:
		lb.source(b.Source)
	case *BlockMath:
		if r.verbatim || (b.Canonical && r.hook == nil) {
			lb.source(b.Source)
			return
		}
		canonical := "$$" + b.EOL + b.Content + b.EOL + "$$"
		if b.Canonical {
			canonical = strings.TrimSuffix(b.Source, b.Trailing)
		}
		out := r.math(MathSpan{
			Canonical: canonical,
			Source:    b.Source,
			Content:   b.Content,
			Display:   true,
		})
		lb.generated(out+b.Trailing, b.Source)
	}
}

func (r *renderer) inlines(lb *lineBuilder, nodes []Inline) {
	for _, node := range nodes {
		switch n := node.(type) {
		case *Text:
			lb.source(n.Value)
		case *CodeSpan:
			lb.source(n.Source)
		case *Link:
			lb.source("[")
			r.inlines(lb, n.Label)
			lb.source("](" + n.Target + ")")
		case *Emphasis:
			lb.source(n.Delim)
			r.inlines(lb, n.Children)
			lb.source(n.Delim)
		case *InlineMath:
			if r.verbatim || ((n.Canonical || n.Keep) && r.hook == nil) {
				lb.source(n.Source)
				continue
			}
			canonical := n.Source
			if !n.Canonical && !n.Keep {
				canonical = canonicalInline(n)
			}
			lb.generated(r.math(MathSpan{
				Canonical: canonical,
				Source:    n.Source,
				Content:   n.Content,
				Display:   n.Display,
			}), n.Source)
		}
	}
}

func (r *renderer) math(m MathSpan) string {
	if r.hook != nil {
		return r.hook(m)
	}
	return m.Canonical
}

// canonicalInline returns $content$ or, for display formulas, $$ lines.
func canonicalInline(m *InlineMath) string {
	switch {
	case !m.Display:
		return "$" + m.Content + "$"
	case m.Nested:
		return "$$" + joinLines(m.Content) + "$$"
	}
	var b strings.Builder
	if m.BreakBefore {
		b.WriteString(m.EOL)
	}
	b.WriteString("$$")
	b.WriteString(m.EOL)
	b.WriteString(m.Indent)
	b.WriteString(m.Content)
	b.WriteString(m.EOL)
	b.WriteString(m.Indent)
	b.WriteString("$$")
	if m.BreakAfter {
		b.WriteString(m.EOL)
	}
	return b.String()
}

// container renders the blocks of c and restores the stripped prefixes.
// Lines that map to a source line get that line's prefix; new lines get
// c.Cont, trimmed when the line is blank.
func (r *renderer) container(c *Container) []outLine {
	lb := &lineBuilder{}
	r.blocks(lb, c.Blocks)
	lines := lb.finish()
	for i, l := range lines {
		if l.src >= 0 && l.src < len(c.Prefixes) {
			lines[i].text = c.Prefixes[l.src] + l.text
			continue
		}
		prefix := c.Cont
		if strings.TrimSpace(l.text) == "" {
			prefix = strings.TrimRight(prefix, " \t")
		}
		lines[i].text = prefix + l.text
	}
	if c.Tail != "" {
		lines = append(lines, outLine{text: c.Tail, src: len(c.Prefixes)})
	}
	return lines
}

// outLine is one rendered line. src is the index of the source line it
// starts, or -1 when the renderer introduced the line.
type outLine struct {
	text string
	src  int
}

// lineBuilder assembles rendered text into lines while tracking which
// source line each output line corresponds to.
type lineBuilder struct {
	lines []outLine
	cur   strings.Builder
	open  bool
	src   int
	// next is the source line that starts after the last source newline.
	next int
	// fresh reports that the next line was introduced by the renderer.
	fresh bool
}

func (lb *lineBuilder) begin(introduced bool) {
	if lb.open {
		return
	}
	lb.open = true
	lb.src = lb.next
	if introduced || lb.fresh {
		lb.src = -1
	}
}

func (lb *lineBuilder) end() {
	lb.lines = append(lb.lines, outLine{text: lb.cur.String(), src: lb.src})
	lb.cur.Reset()
	lb.open = false
}

// source writes text copied from the input.
func (lb *lineBuilder) source(s string) {
	for s != "" {
		lb.begin(false)
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lb.cur.WriteString(s)
			return
		}
		lb.cur.WriteString(s[:i+1])
		lb.end()
		lb.next++
		lb.fresh = false
		s = s[i+1:]
	}
}

// generated writes s in place of the input text orig.
func (lb *lineBuilder) generated(s, orig string) {
	for s != "" {
		lb.begin(false)
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lb.cur.WriteString(s)
			break
		}
		lb.cur.WriteString(s[:i+1])
		lb.end()
		lb.fresh = true
		s = s[i+1:]
	}
	lb.next += strings.Count(orig, "\n")
	if !lb.open && strings.HasSuffix(orig, "\n") {
		lb.fresh = false
	}
}

// gap writes an introduced blank line.
func (lb *lineBuilder) gap(eol string) {
	fresh := lb.fresh
	lb.begin(true)
	lb.cur.WriteString(eol)
	lb.end()
	lb.fresh = fresh
}

// appendLines adds the prefixed lines of a container spanning n source
// lines starting at the current source line.
func (lb *lineBuilder) appendLines(lines []outLine, n int) {
	base := lb.next
	for _, l := range lines {
		src := -1
		if l.src >= 0 {
			src = base + l.src
		}
		lb.lines = append(lb.lines, outLine{text: l.text, src: src})
	}
	lb.next = base + n
	lb.fresh = false
}

func (lb *lineBuilder) finish() []outLine {
	if lb.open {
		lb.end()
	}
	return lb.lines
}
