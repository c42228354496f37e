package markup

import "strings"

// inlineScanner tokenizes the raw text of one paragraph.
type inlineScanner struct {
	src string
	eol string
	// loose holds the offsets of $ runs that did not open or close math.
	loose []int
	found []foundMath
}

// foundMath is a math node with its offsets in src.
type foundMath struct {
	m         *InlineMath
	pos, next int
}

func newInlineScanner(src string) *inlineScanner {
	eol := "\n"
	if strings.Contains(src, "\r\n") {
		eol = "\r\n"
	}
	return &inlineScanner{src: src, eol: eol}
}

// scanInlines parses a paragraph source into inline nodes.
func scanInlines(src string) []Inline {
	s := newInlineScanner(src)
	nodes := s.scan(0, len(src), 0)
	s.keepBesideLooseDollars()
	return nodes
}

// keepBesideLooseDollars marks \(..\) and \[..\] formulas that share a line
// with an unmatched $. Written with dollar delimiters they could pair with
// it when the text is read again, so they keep their source form.
func (s *inlineScanner) keepBesideLooseDollars() {
	if len(s.loose) == 0 {
		return
	}
	for _, f := range s.found {
		if f.m.Canonical || f.m.Source[0] != '\\' {
			continue
		}
		from := strings.LastIndexByte(s.src[:f.pos], '\n') + 1
		to := len(s.src)
		if i := strings.IndexByte(s.src[f.next:], '\n'); i >= 0 {
			to = f.next + i
		}
		for _, p := range s.loose {
			if p >= from && p < to {
				f.m.Keep = true
				break
			}
		}
	}
}

// scan parses src[pos:end]. Adjacent text is merged into one node.
func (s *inlineScanner) scan(pos, end, depth int) []Inline {
	var nodes []Inline
	textStart := pos
	emit := func(at int, n Inline) {
		if at > textStart {
			nodes = append(nodes, &Text{Value: s.src[textStart:at]})
		}
		nodes = append(nodes, n)
	}

	for pos < end {
		if m, next, ok := s.matchMath(pos, end); ok {
			if depth > 0 && m.Display && !m.Canonical {
				m.Nested = true
				m.Content = joinLines(m.Content)
				m.Indent, m.BreakBefore, m.BreakAfter = "", false, false
			}
			s.found = append(s.found, foundMath{m: m, pos: pos, next: next})
			emit(pos, m)
			pos, textStart = next, next
			continue
		}
		switch c := s.src[pos]; c {
		case '`':
			if next, ok := s.codeSpanEnd(pos, end); ok {
				emit(pos, &CodeSpan{Source: s.src[pos:next]})
				pos, textStart = next, next
				continue
			}
			pos = s.runEnd(pos, end, c)
		case '$':
			s.loose = append(s.loose, pos)
			pos = s.runEnd(pos, end, c)
		case '[':
			if depth < maxNesting {
				if l, next, ok := s.matchLink(pos, end, depth); ok {
					emit(pos, l)
					pos, textStart = next, next
					continue
				}
			}
			pos++
		case '*', '_':
			if depth < maxNesting {
				if e, next, ok := s.matchEmphasis(pos, end, depth); ok {
					emit(pos, e)
					pos, textStart = next, next
					continue
				}
			}
			pos = s.runEnd(pos, end, c)
		case '\\':
			if pos+1 < end && isASCIIPunct(s.src[pos+1]) {
				pos += 2
			} else {
				pos++
			}
		default:
			pos++
		}
	}
	if end > textStart {
		nodes = append(nodes, &Text{Value: s.src[textStart:end]})
	}
	return nodes
}

// runEnd returns the index just past the run of c starting at pos.
func (s *inlineScanner) runEnd(pos, end int, c byte) int {
	for pos < end && s.src[pos] == c {
		pos++
	}
	return pos
}

// matchMath tries every math form at pos.
func (s *inlineScanner) matchMath(pos, end int) (*InlineMath, int, bool) {
	switch {
	case strings.HasPrefix(s.src[pos:end], `\[`):
		return s.matchEscaped(pos, end, ']', true)
	case strings.HasPrefix(s.src[pos:end], `\(`):
		return s.matchEscaped(pos, end, ')', false)
	case s.src[pos] == '$':
		if pos+1 < end && s.src[pos+1] == '$' {
			return s.matchDoubleDollar(pos, end)
		}
		return s.matchDollar(pos, end)
	}
	return nil, 0, false
}

// escapedCloser finds the first \<c> at or after from, skipping other
// escape pairs.
func (s *inlineScanner) escapedCloser(from, end int, c byte) int {
	for i := from; i+1 < end; i++ {
		if s.src[i] != '\\' {
			continue
		}
		if s.src[i+1] == c {
			return i
		}
		i++
	}
	return -1
}

// matchEscaped matches \[..\] (display) or \(..\).
func (s *inlineScanner) matchEscaped(pos, end int, closer byte, display bool) (*InlineMath, int, bool) {
	q := s.escapedCloser(pos+2, end, closer)
	if q < 0 {
		return nil, 0, false
	}
	raw := s.src[pos+2 : q]
	content := strings.TrimSpace(raw)
	next := q + 2
	if content == "" || !s.convertible(content, pos, next) {
		return nil, 0, false
	}
	if !display {
		if hasBlankLine(raw) || (next < len(s.src) && isDigit(s.src[next])) {
			return nil, 0, false
		}
		content = joinLines(content)
	}
	m := &InlineMath{
		Content: content,
		Source:  s.src[pos:next],
		Display: display,
		EOL:     s.eol,
	}
	if display {
		s.placeDisplay(m, pos, next)
	}
	return m, next, true
}

// convertible reports whether a formula can be rewritten with dollar
// delimiters and still read back as the same formula.
func (s *inlineScanner) convertible(content string, pos, next int) bool {
	if strings.IndexByte(content, '$') >= 0 || endsWithEscape(content) {
		return false
	}
	if pos > 0 && s.src[pos-1] == '$' {
		return false
	}
	rest := s.src[next:]
	if strings.HasPrefix(rest, `\(`) || strings.HasPrefix(rest, `\[`) {
		return false
	}
	return rest == "" || rest[0] != '$'
}

// endsWithEscape reports whether s ends in an odd run of backslashes, which
// would escape a closing $.
func endsWithEscape(s string) bool {
	n := 0
	for n < len(s) && s[len(s)-1-n] == '\\' {
		n++
	}
	return n%2 == 1
}

// joinLines folds line breaks inside an inline formula into single spaces.
func joinLines(content string) string {
	if !strings.Contains(content, "\n") {
		return content
	}
	parts := strings.Split(content, "\n")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return strings.Join(parts, " ")
}

// placeDisplay records whether a display formula shares its first or last
// line with other text.
func (s *inlineScanner) placeDisplay(m *InlineMath, pos, next int) {
	lineStart := strings.LastIndexByte(s.src[:pos], '\n') + 1
	before := s.src[lineStart:pos]
	if strings.TrimSpace(before) == "" {
		m.Indent = before
	} else {
		m.BreakBefore = true
	}
	after := s.src[next:]
	if i := strings.IndexByte(after, '\n'); i >= 0 {
		after = after[:i]
	}
	m.BreakAfter = strings.TrimSpace(after) != ""
}

// matchDoubleDollar matches $$..$$, which is already canonical.
func (s *inlineScanner) matchDoubleDollar(pos, end int) (*InlineMath, int, bool) {
	for i := pos + 2; i+1 < end; i++ {
		switch {
		case s.src[i] == '\\':
			i++
		case s.src[i] == '$' && s.src[i+1] == '$':
			content := strings.TrimSpace(s.src[pos+2 : i])
			if content == "" {
				return nil, 0, false
			}
			next := i + 2
			return &InlineMath{
				Content:   content,
				Source:    s.src[pos:next],
				Display:   true,
				Canonical: true,
				EOL:       s.eol,
			}, next, true
		}
	}
	return nil, 0, false
}

// matchDollar matches $..$ on a single line. A closing $ followed by a
// digit is skipped so that prices such as "$5 and $10" stay text. An opening
// $ followed by a digit does not match a closer preceded by whitespace, so
// "$5 or $ y $" leaves the price alone.
func (s *inlineScanner) matchDollar(pos, end int) (*InlineMath, int, bool) {
	currency := pos+1 < end && isDigit(s.src[pos+1])
	for i := pos + 1; i < end; i++ {
		switch s.src[i] {
		case '\n':
			return nil, 0, false
		case '\\':
			i++
			continue
		case '$':
		default:
			continue
		}
		if i+1 < end && s.src[i+1] == '$' {
			i = s.runEnd(i, end, '$') - 1
			continue
		}
		if i+1 < len(s.src) && isDigit(s.src[i+1]) {
			continue
		}
		if currency && isSpaceByte(s.src[i-1]) {
			return nil, 0, false
		}
		content := strings.TrimSpace(s.src[pos+1 : i])
		if content == "" {
			return nil, 0, false
		}
		next := i + 1
		return &InlineMath{Content: content, Source: s.src[pos:next], EOL: s.eol}, next, true
	}
	return nil, 0, false
}

// codeSpanEnd returns the index past the backtick run that closes the code
// span opening at pos.
func (s *inlineScanner) codeSpanEnd(pos, end int) (int, bool) {
	open := s.runEnd(pos, end, '`')
	n := open - pos
	for i := open; i < end; {
		if s.src[i] != '`' {
			i++
			continue
		}
		j := s.runEnd(i, end, '`')
		if j-i == n {
			return j, true
		}
		i = j
	}
	return 0, false
}

// skipOpaque returns the end of a math span, code span or escape pair
// starting at pos, or pos when none starts there.
func (s *inlineScanner) skipOpaque(pos, end int) int {
	if _, next, ok := s.matchMath(pos, end); ok {
		return next
	}
	switch s.src[pos] {
	case '`':
		if next, ok := s.codeSpanEnd(pos, end); ok {
			return next
		}
		return s.runEnd(pos, end, '`')
	case '\\':
		if pos+1 < end && isASCIIPunct(s.src[pos+1]) {
			return pos + 2
		}
	}
	return pos
}

// matchLink matches [label](target). The target is opaque.
func (s *inlineScanner) matchLink(pos, end, depth int) (*Link, int, bool) {
	closeLabel := s.labelEnd(pos, end)
	if closeLabel < 0 || closeLabel+1 >= end || s.src[closeLabel+1] != '(' {
		return nil, 0, false
	}
	open := closeLabel + 1
	closeTarget := s.targetEnd(open, end)
	if closeTarget < 0 {
		return nil, 0, false
	}
	return &Link{
		Label:  s.scan(pos+1, closeLabel, depth+1),
		Target: s.src[open+1 : closeTarget],
	}, closeTarget + 1, true
}

// labelEnd finds the ] balancing the [ at pos.
func (s *inlineScanner) labelEnd(pos, end int) int {
	depth := 0
	limit := min(end, pos+maxLabelLen)
	for i := pos; i < limit; {
		if next := s.skipOpaque(i, end); next > i {
			i = next
			continue
		}
		switch s.src[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		case '\n':
			if s.blankLineAt(i) {
				return -1
			}
		}
		i++
	}
	return -1
}

// targetEnd finds the ) balancing the ( at pos.
func (s *inlineScanner) targetEnd(pos, end int) int {
	depth := 0
	limit := min(end, pos+maxTargetLen)
	for i := pos; i < limit; i++ {
		switch s.src[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		case '\n':
			if s.blankLineAt(i) {
				return -1
			}
		}
	}
	return -1
}

// blankLineAt reports whether the line after the newline at i is blank.
func (s *inlineScanner) blankLineAt(i int) bool {
	rest := s.src[i+1:]
	if j := strings.IndexByte(rest, '\n'); j >= 0 {
		return strings.TrimSpace(rest[:j]) == ""
	}
	return false
}

// matchEmphasis matches *x*, _x_, **x** or __x__.
func (s *inlineScanner) matchEmphasis(pos, end, depth int) (*Emphasis, int, bool) {
	c := s.src[pos]
	delim := string(c)
	if s.runEnd(pos, end, c)-pos >= 2 {
		delim += string(c)
	}
	after := pos + len(delim)
	if after >= end || isSpaceByte(s.src[after]) {
		return nil, 0, false
	}
	if c == '_' && pos > 0 && isAlnum(s.src[pos-1]) {
		return nil, 0, false
	}
	closer := s.emphasisCloser(after, end, delim)
	if closer <= after {
		return nil, 0, false
	}
	return &Emphasis{
		Delim:    delim,
		Children: s.scan(after, closer, depth+1),
	}, closer + len(delim), true
}

// emphasisCloser finds the first position that can close delim, skipping
// math, code spans and escapes.
func (s *inlineScanner) emphasisCloser(from, end int, delim string) int {
	for i := from; i < end; {
		if next := s.skipOpaque(i, end); next > i {
			i = next
			continue
		}
		if s.closes(i, end, delim) {
			return i
		}
		if s.src[i] == '\n' && s.blankLineAt(i) {
			return -1
		}
		i++
	}
	return -1
}

func (s *inlineScanner) closes(i, end int, delim string) bool {
	if !strings.HasPrefix(s.src[i:end], delim) {
		return false
	}
	if i == 0 || isSpaceByte(s.src[i-1]) {
		return false
	}
	after := i + len(delim)
	if after < end && s.src[after] == delim[0] {
		return false
	}
	if delim[0] == '_' && after < len(s.src) && isAlnum(s.src[after]) {
		return false
	}
	return true
}
