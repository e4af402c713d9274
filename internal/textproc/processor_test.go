package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixArticles(t *testing.T) {
	p := New()

	tests := []struct {
		in   string
		want string
	}{
		{"a apple", "an apple"},
		{"a banana", "a banana"},
		{"A elephant walked", "An elephant walked"},
		{"build a index of a order", "build an index of an order"},
		{"a", "a"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, p.FixArticles(tc.in), "FixArticles(%q)", tc.in)
	}
}

func TestFixPunctuationSpacing(t *testing.T) {
	p := New()

	tests := []struct {
		in   string
		want string
	}{
		{"hello , world", "hello, world"},
		{"done .", "done."},
		{"why ?", "why?"},
		{"a ; b : c", "a; b: c"},
		{"untouched.", "untouched."},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, p.FixPunctuationSpacing(tc.in))
	}
}

func TestCapitalizeTitle(t *testing.T) {
	p := New()

	tests := []struct {
		in   string
		want string
	}{
		{"the art of computer programming", "The Art of Computer Programming"},
		{"a study on the impact of caching", "A Study on the Impact of Caching"},
		// Last word is always capitalized, even a small word.
		{"what we are for", "What We Are For"},
		{"deconstructing lambda calculus", "Deconstructing Lambda Calculus"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, p.CapitalizeTitle(tc.in))
	}
}

func TestCapitalizeSentence(t *testing.T) {
	p := New()

	tests := []struct {
		in   string
		want string
	}{
		{"hello world. this is fine. ok", "Hello world. This is fine. Ok"},
		{"one! two? three.", "One! Two? Three."},
		{"already Capitalized. yes", "Already Capitalized. Yes"},
		{"", ""},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, p.CapitalizeSentence(tc.in))
	}
}

func TestFormatSectionTitle(t *testing.T) {
	p := New()
	assert.Equal(t, "An Analysis of the Turing Machine",
		p.FormatSectionTitle("a analysis of the turing machine"))
}

func TestFormatBibTeXField(t *testing.T) {
	p := New()

	tests := []struct {
		in   string
		want string
	}{
		{"the UNIX time sharing system", "the {UNIX} time sharing system"},
		{"all lowercase words", "all lowercase words"},
		{"already {Braced} word", "already {Braced} word"},
		{`\emph{kept} Command`, `\emph{kept} {Command}`},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, p.FormatBibTeXField(tc.in))
	}
}

func TestPrettyPrint_SentenceStyle(t *testing.T) {
	p := New()

	got := p.PrettyPrint("we present a approach . it works", CaseSentence)
	assert.Equal(t, "We present an approach. It works", got)
}

func TestPrettyPrint_SkipsLatexAndBlankLines(t *testing.T) {
	p := New()

	in := "\\section{Intro}\n\nsome text here ."
	got := p.PrettyPrint(in, CaseSentence)
	assert.Equal(t, "\\section{Intro}\n\nSome text here.", got)
}

func TestPrettyPrint_RepairsEmCommand(t *testing.T) {
	p := New()

	got := p.PrettyPrint(`note that {\Em very} fast systems win`, CaseNone)
	assert.Equal(t, `note that {\em very} fast systems win`, got)
}

func TestEscapeLatex(t *testing.T) {
	tests := []struct {
		in       string
		skipMath bool
		want     string
	}{
		{"AT&T", false, `AT\&T`},
		{"50% of cases", false, `50\% of cases`},
		{"a_b and c#d", false, `a\_b and c\#d`},
		{"x~y", false, `x\textasciitilde{}y`},
		{"$x^2$ grows", true, "$x^2$ grows"},
		{"cost is 5% when $n_0$ holds", true, `cost is 5\% when $n_0$ holds`},
		{"$a$ and 100%", true, `$a$ and 100\%`},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, EscapeLatex(tc.in, tc.skipMath), "EscapeLatex(%q)", tc.in)
	}
}
