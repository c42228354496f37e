package markup

import "strings"

// splitLines splits s into lines that keep their terminators.
func splitLines(s string) []string {
	var lines []string
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i+1])
		s = s[i+1:]
	}
	return lines
}

// scanBlocks partitions lines into blocks. Spans are relative to lines.
func scanBlocks(lines []string, depth int) []Block {
	var blocks []Block
	for i := 0; i < len(lines); {
		b := scanBlock(lines, i, depth)
		blocks = append(blocks, b)
		i = b.LineSpan().End
	}
	return blocks
}

func scanBlock(lines []string, i, depth int) Block {
	line := lines[i]
	body := lineBody(line)

	if isBlank(line) {
		j := i + 1
		for j < len(lines) && isBlank(lines[j]) {
			j++
		}
		return opaque(lines, i, j)
	}
	if marker, ok := fenceOpen(line); ok {
		return scanFence(lines, i, marker)
	}
	if isBlockMathOpen(line) {
		return scanBracketMath(lines, i)
	}
	if isDisplayFence(line) {
		if b, ok := scanDisplayMath(lines, i); ok {
			return b
		}
		return scanParagraph(lines, i)
	}
	if atxHeading.MatchString(body) {
		return paragraph(lines, i, i+1)
	}
	if thematicBreak.MatchString(body) {
		return opaque(lines, i, i+1)
	}
	if depth < maxContainerDepth {
		if quoteMarker.MatchString(body) {
			return scanQuote(lines, i, depth)
		}
		if it, ok := parseListItem(line); ok {
			return scanList(lines, i, it, depth)
		}
	}
	if indentWidth(body) >= 4 {
		return scanIndentedCode(lines, i)
	}
	return scanParagraph(lines, i)
}

func opaque(lines []string, i, j int) *Opaque {
	return &Opaque{Span: Span{i, j}, Source: strings.Join(lines[i:j], "")}
}

func paragraph(lines []string, i, j int) *Paragraph {
	return &Paragraph{Span: Span{i, j}, Source: strings.Join(lines[i:j], "")}
}

// scanFence consumes a fenced code block. An unclosed fence runs to the end
// of input.
func scanFence(lines []string, i int, marker string) Block {
	j := i + 1
	for j < len(lines) {
		if closesFence(lines[j], marker) {
			j++
			break
		}
		j++
	}
	return &CodeBlock{Span: Span{i, j}, Source: strings.Join(lines[i:j], "")}
}

// scanBracketMath consumes a "[" region up to the first "]" line. Regions
// that never close, close around nothing, or hold a "$$" line stay opaque.
func scanBracketMath(lines []string, i int) Block {
	fence := false
	for j := i + 1; j < len(lines); j++ {
		if isDisplayFence(lines[j]) {
			fence = true
		}
		if !isBlockMathClose(lines[j]) {
			continue
		}
		content := strings.TrimSpace(strings.Join(lines[i+1:j], ""))
		if content == "" || fence {
			return opaque(lines, i, j+1)
		}
		return &BlockMath{
			Span:     Span{i, j + 1},
			Content:  content,
			Source:   strings.Join(lines[i:j+1], ""),
			EOL:      lineEnding(lines[i]),
			Trailing: lineEnding(lines[j]),
		}
	}
	return opaque(lines, i, len(lines))
}

// scanDisplayMath consumes a region that already uses $$ lines.
func scanDisplayMath(lines []string, i int) (Block, bool) {
	for j := i + 1; j < len(lines); j++ {
		if !isDisplayFence(lines[j]) {
			continue
		}
		return &BlockMath{
			Span:      Span{i, j + 1},
			Content:   strings.TrimSpace(strings.Join(lines[i+1:j], "")),
			Source:    strings.Join(lines[i:j+1], ""),
			EOL:       lineEnding(lines[i]),
			Trailing:  lineEnding(lines[j]),
			Canonical: true,
		}, true
	}
	return nil, false
}

func scanParagraph(lines []string, i int) Block {
	j := i + 1
	for j < len(lines) && !isBlank(lines[j]) && !interruptsParagraph(lines[j]) {
		j++
	}
	return paragraph(lines, i, j)
}

// scanIndentedCode consumes lines indented four or more columns. Trailing
// blank lines are left to the caller.
func scanIndentedCode(lines []string, i int) Block {
	end := i + 1
	for j := i + 1; j < len(lines); j++ {
		if isBlank(lines[j]) {
			continue
		}
		if indentWidth(lineBody(lines[j])) < 4 {
			break
		}
		end = j + 1
	}
	return &CodeBlock{Span: Span{i, end}, Source: strings.Join(lines[i:end], "")}
}

// scanQuote consumes "> " lines plus lazy continuation lines.
func scanQuote(lines []string, i, depth int) Block {
	c := &Container{Cont: "> "}
	var bodies []string
	lazy := false
	j := i
	for j < len(lines) {
		line := lines[j]
		if loc := quoteMarker.FindStringIndex(lineBody(line)); loc != nil {
			prefix := line[:loc[1]]
			c.Prefixes = append(c.Prefixes, prefix)
			bodies = append(bodies, line[loc[1]:])
			lazy = !isBlank(line[loc[1]:])
			j++
			continue
		}
		if lazy && !isBlank(line) && !interruptsParagraph(line) {
			if _, ok := parseListItem(line); !ok {
				c.Prefixes = append(c.Prefixes, "")
				bodies = append(bodies, line)
				j++
				continue
			}
		}
		break
	}
	if first := strings.TrimRight(c.Prefixes[0], " "); first != ">" {
		c.Cont = first + " "
	}
	bodies = splitTail(c, bodies)
	c.Blocks = scanBlocks(bodies, depth+1)
	return &Quote{Span: Span{i, j}, Body: c}
}

// scanList consumes sibling items that share a marker family.
func scanList(lines []string, i int, first listItem, depth int) Block {
	l := &List{}
	j := i
	it := first
	for {
		item, next := scanItem(lines, j, it, depth)
		l.Items = append(l.Items, item)
		j = next
		if j >= len(lines) {
			break
		}
		sib, ok := parseListItem(lines[j])
		if !ok || sib.family != first.family {
			break
		}
		if _, ok := fenceOpen(lines[j]); ok {
			break
		}
		if thematicBreak.MatchString(lineBody(lines[j])) {
			break
		}
		it = sib
	}
	l.Span = Span{i, j}
	return l
}

// scanItem consumes one list item starting at its marker line.
func scanItem(lines []string, i int, it listItem, depth int) (*Container, int) {
	c := &Container{Cont: strings.Repeat(" ", it.width)}
	c.Prefixes = append(c.Prefixes, lines[i][:it.prefix])
	bodies := []string{lines[i][it.prefix:]}
	lazy := !it.empty

	j := i + 1
	for j < len(lines) {
		line := lines[j]
		if isBlank(line) {
			k := j
			for k < len(lines) && isBlank(lines[k]) {
				k++
			}
			if k >= len(lines) || indentWidth(lineBody(lines[k])) < it.width {
				break
			}
			for ; j < k; j++ {
				p := blankPrefix(lines[j], it.width)
				c.Prefixes = append(c.Prefixes, p)
				bodies = append(bodies, lines[j][len(p):])
			}
			lazy = false
			continue
		}
		if p, ok := stripIndent(line, it.width); ok {
			c.Prefixes = append(c.Prefixes, p)
			bodies = append(bodies, line[len(p):])
			lazy = true
			j++
			continue
		}
		if lazy && !interruptsParagraph(line) {
			if _, ok := parseListItem(line); !ok {
				c.Prefixes = append(c.Prefixes, "")
				bodies = append(bodies, line)
				j++
				continue
			}
		}
		break
	}
	bodies = splitTail(c, bodies)
	c.Blocks = scanBlocks(bodies, depth+1)
	return c, j
}

// splitTail moves a last line with nothing after its prefix into c.Tail.
// Only the final line of input can have an empty body.
func splitTail(c *Container, bodies []string) []string {
	last := len(bodies) - 1
	if bodies[last] != "" {
		return bodies
	}
	c.Tail = c.Prefixes[last]
	c.Prefixes = c.Prefixes[:last]
	return bodies[:last]
}

// blankPrefix returns the leading whitespace of a blank line, at most w
// columns of it, leaving the terminator in the body.
func blankPrefix(line string, w int) string {
	body := lineBody(line)
	if p, ok := stripIndent(body, w); ok {
		return p
	}
	return body
}
