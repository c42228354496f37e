// Package markup parses chat-style Markdown into a small document tree in
// which math regions are typed nodes and everything else is source text.
//
// The block scanner splits input into paragraphs, lists, quotes, code and
// block math. The inline scanner then finds math, code spans, links and
// emphasis inside paragraphs. Render writes math back in one dialect:
//
//	$x$              inline
//	$$               display, on lines of its own
//	x
//	$$
//
// Text outside math is written byte for byte.
package markup
