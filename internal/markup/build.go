package markup

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for building and rendering documents.
var (
	ErrInconsistent = errors.New("document tree does not reproduce input")
	ErrUnstable     = errors.New("rendered text reads back differently")
)

// Parse builds the document tree for src. Every math node keeps its source
// text, and Parse verifies that rendering those sources gives back src.
func Parse(src string) (*Document, error) {
	doc := &Document{Blocks: scanBlocks(splitLines(src), 0)}
	attachInlines(doc.Blocks)

	if got := RenderSource(doc); got != src {
		return nil, fmt.Errorf("%w: %d bytes in, %d bytes out", ErrInconsistent, len(src), len(got))
	}
	return doc, nil
}

// Canonicalize parses src and renders it in the canonical dialect. The
// output is parsed again and must hold the same formulas and render to
// itself; otherwise ErrUnstable is returned.
func Canonicalize(src string) (string, error) {
	doc, err := Parse(src)
	if err != nil {
		return "", err
	}
	out := Render(doc)
	if out == src {
		return out, nil
	}

	back, err := Parse(out)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnstable, err)
	}
	if !sameFormulas(Formulas(doc), Formulas(back)) {
		return "", fmt.Errorf("%w: formulas changed", ErrUnstable)
	}
	if Render(back) != out {
		return "", fmt.Errorf("%w: output is not canonical", ErrUnstable)
	}
	return out, nil
}

// sameFormulas compares formulas with runs of whitespace folded.
func sameFormulas(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if strings.Join(strings.Fields(a[i]), " ") != strings.Join(strings.Fields(b[i]), " ") {
			return false
		}
	}
	return true
}

// attachInlines runs the inline scanner over every paragraph.
func attachInlines(blocks []Block) {
	for _, blk := range blocks {
		switch b := blk.(type) {
		case *Paragraph:
			b.Inlines = scanInlines(b.Source)
		case *List:
			for _, item := range b.Items {
				attachInlines(item.Blocks)
			}
		case *Quote:
			attachInlines(b.Body.Blocks)
		}
	}
}

// Formulas returns the content of every math node in document order.
func Formulas(doc *Document) []string {
	var out []string
	var inlines func([]Inline)
	inlines = func(nodes []Inline) {
		for _, node := range nodes {
			switch n := node.(type) {
			case *InlineMath:
				out = append(out, n.Content)
			case *Link:
				inlines(n.Label)
			case *Emphasis:
				inlines(n.Children)
			}
		}
	}
	var blocks func([]Block)
	blocks = func(bs []Block) {
		for _, blk := range bs {
			switch b := blk.(type) {
			case *BlockMath:
				out = append(out, b.Content)
			case *Paragraph:
				inlines(b.Inlines)
			case *List:
				for _, item := range b.Items {
					blocks(item.Blocks)
				}
			case *Quote:
				blocks(b.Body.Blocks)
			}
		}
	}
	blocks(doc.Blocks)
	return out
}
