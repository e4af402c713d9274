package grammar

// ResolutionKind tags how a symbol was resolved, letting callers and tests
// distinguish "the grammar defines this" from "this fell back to a literal".
type ResolutionKind int

const (
	// KindRule means the symbol matched a loaded grammar rule.
	KindRule ResolutionKind = iota

	// KindContext means a runtime context override supplied the value.
	KindContext

	// KindCounter means a +/# counter operator produced the value.
	KindCounter

	// KindLiteral means the symbol was undefined and returned unchanged.
	KindLiteral

	// KindTruncated means the recursion ceiling was hit and a bracketed
	// placeholder was returned instead of recursing further.
	KindTruncated
)

// String returns the kind's name for logs and test failure messages.
func (k ResolutionKind) String() string {
	switch k {
	case KindRule:
		return "rule"
	case KindContext:
		return "context"
	case KindCounter:
		return "counter"
	case KindLiteral:
		return "literal"
	case KindTruncated:
		return "truncated"
	default:
		return "unknown"
	}
}

// Resolution is the tagged result of resolving one symbol.
type Resolution struct {
	Text string
	Kind ResolutionKind
}
