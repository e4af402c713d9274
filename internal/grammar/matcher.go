package grammar

import "sort"

// matchKind identifies which candidate class produced a reference match.
type matchKind int

const (
	matchContext matchKind = iota
	matchCounter
	matchRule
)

// reference describes the earliest rule reference found in a text fragment.
// symbol is the text to feed back into Resolve - for counter matches it
// includes the trailing + or # operator.
type reference struct {
	start  int
	end    int
	symbol string
	kind   matchKind
}

// matcher locates the leftmost known reference inside arbitrary text.
//
// It is an explicit scanner over three candidate classes, evaluated at each
// position in priority order: runtime context keys (allowed to shadow rules
// of the same name), counter operators (an uppercase/underscore run followed
// by + or #, which need not be a defined rule), and plain rule names. The
// earliest position with any match wins; at the same position the class
// order above breaks the tie.
//
// Candidate name lists are ordered longest first so that a longer name beats
// a shorter one that is a textual prefix of it. This is the single most
// important correctness property here: CITATION_SINGLE must match before
// CITATION ever gets a chance.
//
// The matcher is rebuilt whenever the rule-name set changes.
type matcher struct {
	ruleNames []string // longest first
}

// newMatcher builds a matcher over the store's current key set.
func newMatcher(rs *RuleSet) *matcher {
	names := rs.Names()
	sortLongestFirst(names)
	return &matcher{ruleNames: names}
}

// sortLongestFirst orders names by descending length. The sort is stable over
// the store's insertion order, keeping construction deterministic.
func sortLongestFirst(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return len(names[i]) > len(names[j])
	})
}

// find returns the earliest reference in text, scanning left to right.
// contextKeys must already be ordered longest first.
func (m *matcher) find(text string, contextKeys []string) (reference, bool) {
	for i := 0; i < len(text); i++ {
		rest := text[i:]

		for _, key := range contextKeys {
			if hasPrefix(rest, key) {
				return reference{start: i, end: i + len(key), symbol: key, kind: matchContext}, true
			}
		}

		if n := counterRun(rest); n > 0 {
			return reference{start: i, end: i + n, symbol: rest[:n], kind: matchCounter}, true
		}

		for _, name := range m.ruleNames {
			if hasPrefix(rest, name) {
				return reference{start: i, end: i + len(name), symbol: name, kind: matchRule}, true
			}
		}
	}
	return reference{}, false
}

// counterRun returns the length of a counter-operator reference at the start
// of s: a maximal run of [A-Z_] immediately followed by + or #. Returns 0 if
// s does not start with one.
func counterRun(s string) int {
	n := 0
	for n < len(s) && isCounterChar(s[n]) {
		n++
	}
	if n == 0 || n >= len(s) {
		return 0
	}
	if s[n] == '+' || s[n] == '#' {
		return n + 1
	}
	return 0
}

func isCounterChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') || c == '_'
}

// hasPrefix is strings.HasPrefix without empty-string matches: an empty name
// must never produce a zero-width reference.
func hasPrefix(s, prefix string) bool {
	return len(prefix) > 0 && len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
