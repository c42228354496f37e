package mathnorm

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/alnah/go-mathnorm/internal/markup"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "link unchanged",
			input:    "See [the docs](https://example.com) for details.",
			expected: "See [the docs](https://example.com) for details.",
		},
		{
			name:     "bracket block",
			input:    "[\nx = y + z\n]",
			expected: "$$\nx = y + z\n$$",
		},
		{
			name:     "backslash paren",
			input:    "Euler's identity: \\(e^{i\\pi}+1=0\\).",
			expected: "Euler's identity: $e^{i\\pi}+1=0$.",
		},
		{
			name:     "padded dollar",
			input:    "$ a^2 + b^2 = c^2 $",
			expected: "$a^2 + b^2 = c^2$",
		},
		{
			name:     "fenced code immune",
			input:    "```\n\\(x\\)\n[\ny\n]\n```\n",
			expected: "```\n\\(x\\)\n[\ny\n]\n```\n",
		},
		{
			name:     "inline code immune",
			input:    "Use `\\(x\\)` or `$ y $` here",
			expected: "Use `\\(x\\)` or `$ y $` here",
		},
		{
			name:     "unterminated block kept",
			input:    "intro\n[\nx = 1\nno closer",
			expected: "intro\n[\nx = 1\nno closer",
		},
		{
			name:     "bare parentheses never math",
			input:    "f(x) = (a + b) and (see above)",
			expected: "f(x) = (a + b) and (see above)",
		},
		{
			name:     "currency unchanged",
			input:    "It costs $5 and $10.",
			expected: "It costs $5 and $10.",
		},
		{
			name:     "canonical block unchanged",
			input:    "$$\nx^2\n$$\n",
			expected: "$$\nx^2\n$$\n",
		},
		{
			name:     "crlf preserved",
			input:    "[\r\nx\r\n]\r\n",
			expected: "$$\r\nx\r\n$$\r\n",
		},
		{
			name:     "no math fast path",
			input:    "plain text, nothing to do",
			expected: "plain text, nothing to do",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
		{
			name:     "paren beside unmatched dollar",
			input:    "It costs $ 10 for \\(n\\) items.",
			expected: "It costs $ 10 for \\(n\\) items.",
		},
		{
			name:     "parens beside price",
			input:    "The price is $5 per unit, so \\(n\\) units cost \\(5n\\) dollars.",
			expected: "The price is $5 per unit, so \\(n\\) units cost \\(5n\\) dollars.",
		},
		{
			name:     "price does not open math",
			input:    "Costs $5 and \\(x\\) or $ y $.",
			expected: "Costs $5 and \\(x\\) or $y$.",
		},
		{
			name:     "lone bullet at end",
			input:    "[\nx = y\n]\n\n*",
			expected: "$$\nx = y\n$$\n\n*",
		},
		{
			name:     "lone quote marker at end",
			input:    "[\nx = y\n]\n\n>",
			expected: "$$\nx = y\n$$\n\n>",
		},
		{
			name:     "lone ordered marker at end",
			input:    "Steps:\n[\nx = y\n]\n\n1.",
			expected: "Steps:\n\n$$\nx = y\n$$\n\n1.",
		},
		{
			name:     "bracket region holding display fence",
			input:    "[\na\n$$\nb\n]\n",
			expected: "[\na\n$$\nb\n]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
			if again := Normalize(got); again != got {
				t.Errorf("Normalize is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNormalizeResult_Structured(t *testing.T) {
	t.Parallel()

	r := New().NormalizeResult("a \\(x\\) b")
	if r.Path != PathStructured {
		t.Errorf("Path = %v, want %v", r.Path, PathStructured)
	}
	if r.Err != nil {
		t.Errorf("Err = %v, want nil", r.Err)
	}
	if !r.Changed("a \\(x\\) b") {
		t.Error("Changed() = false, want true")
	}
}

func TestNormalize_KeepsFormulas(t *testing.T) {
	t.Parallel()

	tests := []string{
		"$ 0\\(0\\)A0000000000",
		"It costs $ 10 for \\(n\\) items.",
		"The price is $5 per unit, so \\(n\\) units cost \\(5n\\) dollars.",
		"Costs $5 and \\(x\\) or $ y $.",
		"Pay $ 5\n\\(n\\) items",
		"- \\(a\\) and \\(b\\)\n> \\(c\\)\n",
		"\\(a\\)\\(b\\) and $c$",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			r := New().NormalizeResult(input)
			if r.Path != PathStructured {
				t.Fatalf("Path = %v, want %v (err: %v)", r.Path, PathStructured, r.Err)
			}
			before := parseFormulas(t, input)
			after := parseFormulas(t, r.Text)
			if len(before) != len(after) {
				t.Fatalf("formulas = %q, want %q", after, before)
			}
			for i := range before {
				if fold(before[i]) != fold(after[i]) {
					t.Errorf("formula %d = %q, want %q", i, after[i], before[i])
				}
			}
		})
	}
}

func parseFormulas(t *testing.T, text string) []string {
	t.Helper()
	doc, err := markup.Parse(text)
	if err != nil {
		t.Fatalf("markup.Parse(%q) error: %v", text, err)
	}
	return markup.Formulas(doc)
}

func fold(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// withStages swaps the stage functions for the duration of the test.
// Tests using it must not call t.Parallel.
func withStages(t *testing.T, s, f func(string) (string, error)) {
	t.Helper()
	prevS, prevF := structuredPass, fallbackPass
	if s != nil {
		structuredPass = s
	}
	if f != nil {
		fallbackPass = f
	}
	t.Cleanup(func() {
		structuredPass, fallbackPass = prevS, prevF
	})
}

var errBoom = errors.New("boom")

func failing(string) (string, error) { return "", errBoom }

func panicking(string) (string, error) { panic("scanner bug") }

func TestNormalizeResult_FallsBack(t *testing.T) {
	withStages(t, failing, nil)

	var buf bytes.Buffer
	n := New(WithLogger(zerolog.New(&buf)))
	r := n.NormalizeResult("a \\(x\\) and $ y $")

	if r.Path != PathFallback {
		t.Errorf("Path = %v, want %v", r.Path, PathFallback)
	}
	if r.Text != "a $x$ and $y$" {
		t.Errorf("Text = %q, want %q", r.Text, "a $x$ and $y$")
	}
	if !errors.Is(r.Err, errBoom) {
		t.Errorf("Err = %v, want errBoom", r.Err)
	}
	if !strings.Contains(buf.String(), "structured normalization failed") {
		t.Errorf("log = %q, want structured failure warning", buf.String())
	}
}

func TestNormalizeResult_FallbackDisabled(t *testing.T) {
	withStages(t, failing, nil)

	input := "a \\(x\\)"
	r := New(WithFallback(false)).NormalizeResult(input)
	if r.Path != PathOriginal {
		t.Errorf("Path = %v, want %v", r.Path, PathOriginal)
	}
	if r.Text != input {
		t.Errorf("Text = %q, want input unchanged", r.Text)
	}
}

func TestNormalizeResult_UnsettledFallback(t *testing.T) {
	withStages(t, failing, func(s string) (string, error) { return s + "!", nil })

	input := "a \\(x\\)"
	r := New().NormalizeResult(input)
	if r.Path != PathOriginal {
		t.Errorf("Path = %v, want %v", r.Path, PathOriginal)
	}
	if r.Text != input {
		t.Errorf("Text = %q, want input unchanged", r.Text)
	}
	if !errors.Is(r.Err, ErrFallback) {
		t.Errorf("Err = %v, want ErrFallback", r.Err)
	}
	if !errors.Is(r.Err, errBoom) {
		t.Errorf("Err = %v, want errBoom", r.Err)
	}
}

func TestNormalizeResult_EverythingFails(t *testing.T) {
	withStages(t, failing, failing)

	input := "a \\(x\\)"
	r := New().NormalizeResult(input)
	if r.Path != PathOriginal {
		t.Errorf("Path = %v, want %v", r.Path, PathOriginal)
	}
	if r.Text != input {
		t.Errorf("Text = %q, want input unchanged", r.Text)
	}
	if r.Changed(input) {
		t.Error("Changed() = true, want false")
	}
}

func TestRecoverStage(t *testing.T) {
	t.Parallel()

	stage := func() (out string, err error) {
		defer recoverStage(&err)
		var m map[string]int
		m["x"]++
		return "unreachable", nil
	}

	_, err := stage()
	if !errors.Is(err, ErrPanic) {
		t.Errorf("error = %v, want ErrPanic", err)
	}
}

func TestNormalizeResult_PanicDegrades(t *testing.T) {
	withStages(t, panickingStage, nil)

	r := New().NormalizeResult("a \\(x\\)")
	if r.Path != PathFallback {
		t.Errorf("Path = %v, want %v", r.Path, PathFallback)
	}
	if !errors.Is(r.Err, ErrPanic) {
		t.Errorf("Err = %v, want ErrPanic", r.Err)
	}
	if r.Text != "a $x$" {
		t.Errorf("Text = %q, want %q", r.Text, "a $x$")
	}
}

// panickingStage uses the same recovery as the real stages.
func panickingStage(text string) (out string, err error) {
	defer recoverStage(&err)
	return panicking(text)
}

func TestPath_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path Path
		want string
	}{
		{PathStructured, "structured"},
		{PathFallback, "fallback"},
		{PathOriginal, "original"},
		{Path(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			if got := tt.path.String(); got != tt.want {
				t.Errorf("Path(%d).String() = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestMayContainMath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"plain", false},
		{"(a + b)", false},
		{"$x$", true},
		{"\\(x\\)", true},
		{"[\nx\n]", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := mayContainMath(tt.input); got != tt.want {
				t.Errorf("mayContainMath(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func FuzzNormalize(f *testing.F) {
	seeds := []string{
		"",
		"[\nx = y + z\n]",
		"\\(a\\) and \\[b\\]",
		"$ a $ costs $5",
		"- item \\(x\\)\n  [\n  y\n  ]\n",
		"> quote \\[z\\]\n",
		"```\n\\(x\\)\n```",
		"[[[\\(x\\)](u)",
		"$ 0\\(0\\)A0000000000",
		"*",
		"Steps:\n[\nx = y\n]\n\n1.",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		r := New().NormalizeResult(input)
		once := r.Text
		twice := Normalize(once)
		if once != twice {
			t.Errorf("not idempotent:\ninput: %q\nonce:  %q\ntwice: %q", input, once, twice)
		}
		if r.Path != PathStructured {
			return
		}

		before, err := markup.Parse(input)
		if err != nil {
			return
		}
		after, err := markup.Parse(once)
		if err != nil {
			t.Fatalf("markup.Parse(%q) error on output: %v", once, err)
		}
		b, a := markup.Formulas(before), markup.Formulas(after)
		if len(b) != len(a) {
			t.Fatalf("formulas changed for %q:\nbefore: %q\nafter:  %q", input, b, a)
		}
		for i := range b {
			if fold(b[i]) != fold(a[i]) {
				t.Errorf("formula %d changed for %q: %q -> %q", i, input, b[i], a[i])
			}
		}
	})
}
