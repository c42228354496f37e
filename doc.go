// Package mathnorm rewrites the math delimiters found in chat-style text
// into one canonical dialect and leaves everything else byte-identical.
//
// # Quick Start
//
//	out := mathnorm.Normalize(`Euler: \(e^{i\pi}+1=0\)`)
//	// out == "Euler: $e^{i\pi}+1=0$"
//
// # Recognized forms
//
// A line holding only "[" opens block math, closed by a line holding only
// "]". Inside text, \[..\] is display math and \(..\) and padded $ .. $ are
// inline math. Output uses $..$ for inline math and three lines ($$,
// content, $$) for display math. Bare parentheses and brackets are never
// treated as math, and nothing inside code spans or code blocks changes.
//
// # Degradation
//
// Normalization is total. If the structured parser cannot reproduce its
// input, a narrower pattern-based pass runs instead, and if that also fails
// the input is returned unchanged:
//
//	n := mathnorm.New(mathnorm.WithLogger(logger))
//	res := n.NormalizeResult(text)
//	if res.Path != mathnorm.PathStructured {
//	    log.Printf("degraded: %v", res.Err)
//	}
//
// # Parallel Processing
//
// Normalizer is stateless and safe for concurrent use. ResolvePoolSize
// picks a worker count for batch jobs from GOMAXPROCS.
package mathnorm
