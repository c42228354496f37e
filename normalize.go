package mathnorm

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/alnah/go-mathnorm/internal/markup"
	"github.com/alnah/go-mathnorm/internal/pipeline"
)

// Path reports which stage produced a Result.
type Path int

const (
	// PathStructured means the document tree was built and rendered.
	PathStructured Path = iota
	// PathFallback means the conservative pattern pass produced the text.
	PathFallback
	// PathOriginal means every stage failed and the input came back unchanged.
	PathOriginal
)

// String returns the lowercase name of the path.
func (p Path) String() string {
	switch p {
	case PathStructured:
		return "structured"
	case PathFallback:
		return "fallback"
	case PathOriginal:
		return "original"
	default:
		return "unknown"
	}
}

// Result is the outcome of one normalization.
// Err is set whenever Path is not PathStructured; Text is always usable.
type Result struct {
	Text string
	Path Path
	Err  error
}

// Changed reports whether the text differs from input.
func (r Result) Changed(input string) bool {
	return r.Text != input
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithFallback enables or disables the pattern-based fallback used when the
// structured pass fails. Enabled by default.
func WithFallback(enabled bool) Option {
	return func(n *Normalizer) {
		n.fallback = enabled
	}
}

// WithLogger sets the logger used to report degraded normalizations.
func WithLogger(logger zerolog.Logger) Option {
	return func(n *Normalizer) {
		n.logger = logger
	}
}

// Normalizer rewrites math delimiters into the canonical dialect.
// A Normalizer holds no per-call state and is safe for concurrent use.
type Normalizer struct {
	fallback bool
	logger   zerolog.Logger
}

// New creates a Normalizer with the given options.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		fallback: true,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

var defaultNormalizer = New()

// Normalize rewrites text with the default Normalizer.
func Normalize(text string) string {
	return defaultNormalizer.Normalize(text)
}

// Normalize returns text with every recognized math form rewritten as $..$
// or $$ lines. It never fails: on internal errors it returns the fallback
// result or text itself.
func (n *Normalizer) Normalize(text string) string {
	return n.NormalizeResult(text).Text
}

// NormalizeResult is Normalize with the stage that produced the text and
// the error that forced any degradation.
func (n *Normalizer) NormalizeResult(text string) Result {
	if !mayContainMath(text) {
		return Result{Text: text, Path: PathStructured}
	}

	out, err := structuredPass(text)
	if err == nil {
		return Result{Text: out, Path: PathStructured}
	}
	n.logger.Warn().Err(err).Int("bytes", len(text)).Msg("structured normalization failed")

	if !n.fallback {
		return Result{Text: text, Path: PathOriginal, Err: err}
	}

	out, ferr := fallbackPass(text)
	if ferr == nil && !settled(out) {
		ferr = fmt.Errorf("%w: output changes when normalized again", ErrFallback)
	}
	if ferr != nil {
		n.logger.Error().Err(ferr).Msg("fallback normalization failed, returning input unchanged")
		return Result{Text: text, Path: PathOriginal, Err: fmt.Errorf("%w (then %w)", err, ferr)}
	}
	n.logger.Info().Msg("normalized with fallback rules")
	return Result{Text: out, Path: PathFallback, Err: err}
}

// settled reports whether normalizing text again would return it unchanged.
// A structured result is settled by construction; fallback output is checked
// with this before it is returned.
func settled(text string) bool {
	if !mayContainMath(text) {
		return true
	}
	if out, err := structuredPass(text); err == nil {
		return out == text
	}
	out, err := fallbackPass(text)
	return err != nil || out == text
}

// Stage functions, replaced in tests to force degraded paths.
var (
	structuredPass = structured
	fallbackPass   = fallback
)

// mayContainMath is a cheap pre-check: every recognized form needs one of
// these bytes.
func mayContainMath(text string) bool {
	return strings.ContainsAny(text, "[\\$")
}

func structured(text string) (out string, err error) {
	defer recoverStage(&err)

	out, err = markup.Canonicalize(text)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStructured, err)
	}
	return out, nil
}

func fallback(text string) (out string, err error) {
	defer recoverStage(&err)

	out, err = pipeline.ConvertFallback(text)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFallback, err)
	}
	return out, nil
}

// recoverStage turns a panic in a stage into an ErrPanic error.
func recoverStage(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %v", ErrPanic, r)
	}
}
