package markup

// Document is the parsed form of one input text.
// Blocks cover the input line by line with no gaps and no overlaps.
type Document struct {
	Blocks []Block
}

// BlockKind identifies the concrete type behind a Block.
type BlockKind int

const (
	BlockOpaque BlockKind = iota
	BlockParagraph
	BlockList
	BlockQuote
	BlockCode
	BlockMathKind
)

// String returns the lowercase name of the kind.
func (k BlockKind) String() string {
	switch k {
	case BlockOpaque:
		return "opaque"
	case BlockParagraph:
		return "paragraph"
	case BlockList:
		return "list"
	case BlockQuote:
		return "quote"
	case BlockCode:
		return "code"
	case BlockMathKind:
		return "math"
	default:
		return "unknown"
	}
}

// Span is a half-open range of line indices [Start, End) in the line
// sequence that holds a block.
type Span struct {
	Start, End int
}

// LineSpan returns the span itself so that embedding types satisfy Block.
func (s Span) LineSpan() Span { return s }

// Block is one of *Paragraph, *List, *Quote, *CodeBlock, *BlockMath or *Opaque.
type Block interface {
	Kind() BlockKind
	LineSpan() Span
	block()
}

// Paragraph is a run of text lines. ATX headings and table rows are
// paragraphs too.
type Paragraph struct {
	Span
	Source  string
	Inlines []Inline
}

// List holds consecutive items of the same marker family.
type List struct {
	Span
	Items []*Container
}

// Quote is a blockquote.
type Quote struct {
	Span
	Body *Container
}

// CodeBlock is a fenced or indented code block, kept verbatim.
type CodeBlock struct {
	Span
	Source string
}

// BlockMath is a display formula occupying whole lines.
//
// Content is trimmed. EOL is the line ending used inside the region and
// Trailing is the terminator of the closing line ("" at end of input).
// Canonical regions were already written with $$ lines and render as Source.
type BlockMath struct {
	Span
	Content   string
	Source    string
	EOL       string
	Trailing  string
	Canonical bool
}

// Opaque is text that passes through untouched: blank-line runs, thematic
// breaks and unterminated or empty [ regions.
type Opaque struct {
	Span
	Source string
}

// Container is the body of a list item or blockquote with the per-line
// prefixes removed.
type Container struct {
	Blocks []Block
	// Prefixes holds the text stripped from the start of each source line.
	Prefixes []string
	// Cont prefixes lines that had no counterpart in the source.
	Cont string
	// Tail is a last source line made only of a prefix, such as a lone "*"
	// or ">" at the end of input. It is written as is after the body.
	Tail string
}

// lineCount returns the number of source lines c spans.
func (c *Container) lineCount() int {
	if c.Tail != "" {
		return len(c.Prefixes) + 1
	}
	return len(c.Prefixes)
}

func (*Paragraph) Kind() BlockKind { return BlockParagraph }
func (*List) Kind() BlockKind      { return BlockList }
func (*Quote) Kind() BlockKind     { return BlockQuote }
func (*CodeBlock) Kind() BlockKind { return BlockCode }
func (*BlockMath) Kind() BlockKind { return BlockMathKind }
func (*Opaque) Kind() BlockKind    { return BlockOpaque }

func (*Paragraph) block() {}
func (*List) block()      {}
func (*Quote) block()     {}
func (*CodeBlock) block() {}
func (*BlockMath) block() {}
func (*Opaque) block()    {}

// InlineKind identifies the concrete type behind an Inline.
type InlineKind int

const (
	InlineText InlineKind = iota
	InlineCode
	InlineLink
	InlineEmphasis
	InlineMathKind
)

// String returns the lowercase name of the kind.
func (k InlineKind) String() string {
	switch k {
	case InlineText:
		return "text"
	case InlineCode:
		return "code"
	case InlineLink:
		return "link"
	case InlineEmphasis:
		return "emphasis"
	case InlineMathKind:
		return "math"
	default:
		return "unknown"
	}
}

// Inline is one of *Text, *CodeSpan, *Link, *Emphasis or *InlineMath.
type Inline interface {
	Kind() InlineKind
	inline()
}

// Text is literal text, escapes included.
type Text struct {
	Value string
}

// CodeSpan is a backtick code span including its delimiters.
type CodeSpan struct {
	Source string
}

// Link is [Label](Target). Target is everything between the parentheses.
type Link struct {
	Label  []Inline
	Target string
}

// Emphasis wraps Children in Delim on both sides.
type Emphasis struct {
	Delim    string
	Children []Inline
}

// InlineMath is a formula found inside text.
//
// Display formulas come from \[..\] or $$..$$ and render on lines of their
// own. BreakBefore and BreakAfter record whether other text shared the
// opening or closing line. Indent is the whitespace before a \[ that began
// its line. Nested display formulas sit inside a link label or emphasis and
// stay on one line. Keep marks a formula that is written in its source form.
type InlineMath struct {
	Content     string
	Source      string
	Display     bool
	Canonical   bool
	Indent      string
	EOL         string
	BreakBefore bool
	BreakAfter  bool
	Nested      bool
	Keep        bool
}

func (*Text) Kind() InlineKind       { return InlineText }
func (*CodeSpan) Kind() InlineKind   { return InlineCode }
func (*Link) Kind() InlineKind       { return InlineLink }
func (*Emphasis) Kind() InlineKind   { return InlineEmphasis }
func (*InlineMath) Kind() InlineKind { return InlineMathKind }

func (*Text) inline()       {}
func (*CodeSpan) inline()   {}
func (*Link) inline()       {}
func (*Emphasis) inline()   {}
func (*InlineMath) inline() {}
