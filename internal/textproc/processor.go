package textproc

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// CaseStyle selects the capitalization applied by PrettyPrint.
type CaseStyle string

const (
	// CaseSentence capitalizes the first letter of each sentence.
	CaseSentence CaseStyle = "sentence"
	// CaseTitle applies headline-style title casing.
	CaseTitle CaseStyle = "title"
	// CaseNone applies no capitalization changes.
	CaseNone CaseStyle = "none"
)

var (
	articleRe     = regexp.MustCompile(`\b([aA])\s+([aeiouAEIOU])`)
	punctSpaceRe  = regexp.MustCompile(`\s+([.,;:?!])`)
	sentenceEndRe = regexp.MustCompile(`[.!?]+\s+`)
	latexEmRe     = regexp.MustCompile(`\\Em\b`)
)

// Words kept lowercase in titles unless first or last.
var titleSmallWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true, "but": true,
	"by": true, "for": true, "in": true, "nor": true, "of": true, "on": true,
	"or": true, "so": true, "the": true, "to": true, "up": true, "yet": true,
}

// Processor applies formatting fixes to generated text.
type Processor struct{}

// New creates a Processor.
func New() *Processor {
	return &Processor{}
}

// FixArticles corrects "a" to "an" before a vowel sound.
func (p *Processor) FixArticles(text string) string {
	return articleRe.ReplaceAllString(text, "${1}n ${2}")
}

// FixPunctuationSpacing removes whitespace preceding punctuation.
func (p *Processor) FixPunctuationSpacing(text string) string {
	return punctSpaceRe.ReplaceAllString(text, "$1")
}

// CapitalizeTitle converts text to title case. Small connective words stay
// lowercase except in first or last position.
func (p *Processor) CapitalizeTitle(text string) string {
	words := strings.Fields(text)
	for i, word := range words {
		if i != 0 && i != len(words)-1 && titleSmallWords[strings.ToLower(word)] {
			words[i] = strings.ToLower(word)
			continue
		}
		words[i] = capitalizeWord(word)
	}
	return strings.Join(words, " ")
}

// CapitalizeSentence upper-cases the first alphabetic character of each
// sentence, splitting on runs of .!? followed by whitespace.
func (p *Processor) CapitalizeSentence(text string) string {
	var b strings.Builder
	last := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		b.WriteString(capitalizeFirstAlpha(text[last:loc[0]]))
		b.WriteString(text[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(capitalizeFirstAlpha(text[last:]))
	return b.String()
}

// PreserveLatexCommands repairs LaTeX commands damaged by capitalization.
func (p *Processor) PreserveLatexCommands(text string) string {
	return latexEmRe.ReplaceAllString(text, `\em`)
}

// FormatSectionTitle title-cases a section heading and fixes its articles.
func (p *Processor) FormatSectionTitle(title string) string {
	return p.FixArticles(p.CapitalizeTitle(title))
}

// FormatBibTeXField braces words containing capital letters so BibTeX
// preserves their casing.
func (p *Processor) FormatBibTeXField(text string) string {
	words := strings.Fields(text)
	for i, word := range words {
		if word == strings.ToLower(word) || strings.HasPrefix(word, `\`) {
			continue
		}
		if !containsUpper(word) {
			continue
		}
		if strings.HasPrefix(word, "{") && strings.HasSuffix(word, "}") {
			continue
		}
		words[i] = "{" + word + "}"
	}
	return strings.Join(words, " ")
}

// PrettyPrint applies the full fix pipeline line by line. Blank lines and
// LaTeX command lines (leading backslash) pass through untouched.
func (p *Processor) PrettyPrint(text string, style CaseStyle) string {
	text = norm.NFC.String(text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, `\`) {
			continue
		}

		line = p.FixPunctuationSpacing(line)
		line = p.FixArticles(line)

		switch style {
		case CaseSentence:
			line = p.CapitalizeSentence(line)
		case CaseTitle:
			line = p.CapitalizeTitle(line)
		}

		lines[i] = p.PreserveLatexCommands(line)
	}
	return strings.Join(lines, "\n")
}

// capitalizeWord upper-cases the first rune and lower-cases the rest.
func capitalizeWord(word string) string {
	runes := []rune(word)
	for i, r := range runes {
		if i == 0 {
			runes[i] = unicode.ToUpper(r)
		} else {
			runes[i] = unicode.ToLower(r)
		}
	}
	return string(runes)
}

// capitalizeFirstAlpha upper-cases the first alphabetic rune, leaving any
// leading punctuation or digits alone.
func capitalizeFirstAlpha(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			return string(runes)
		}
	}
	return s
}

func containsUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
