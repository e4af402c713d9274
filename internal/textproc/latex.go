package textproc

import (
	"regexp"
	"strings"
)

// latexEscaper rewrites every LaTeX special character in one pass, so the
// backslashes it introduces are never re-escaped.
var latexEscaper = strings.NewReplacer(
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
	"{", `\{`,
	"}", `\}`,
	"~", `\textasciitilde{}`,
	"^", `\textasciicircum{}`,
	`\`, `\textbackslash{}`,
)

var mathSegmentRe = regexp.MustCompile(`\$[^$]*\$`)

// EscapeLatex escapes LaTeX special characters. With skipMath set, content
// inside $...$ segments is passed through verbatim.
func EscapeLatex(text string, skipMath bool) string {
	if !skipMath {
		return latexEscaper.Replace(text)
	}

	var b strings.Builder
	last := 0
	for _, loc := range mathSegmentRe.FindAllStringIndex(text, -1) {
		b.WriteString(latexEscaper.Replace(text[last:loc[0]]))
		b.WriteString(text[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(latexEscaper.Replace(text[last:]))
	return b.String()
}
