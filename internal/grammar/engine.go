package grammar

import (
	"log/slog"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultMaxDepth is the recursion ceiling for nested Expand calls. Deeply
// nested citation grammars legitimately reach depths in the low hundreds, so
// the ceiling is generous; anything past it is a cyclic or runaway grammar.
const DefaultMaxDepth = 500

// DefaultMaxAttempts bounds dedup retries for a single expansion.
const DefaultMaxAttempts = 50

// Engine expands grammar symbols into text.
//
// All mutable state (counters, dedup history, context overrides, recursion
// depth) is engine-owned and scoped to one generation pass. Engines are not
// safe for concurrent use; give each document its own engine or call Reset
// between passes.
type Engine struct {
	rules   *RuleSet
	matcher *matcher

	// counters backs the +/# sequential and random-reference operators.
	counters map[string]int

	// seen holds previously produced expansions per dedup-flagged rule.
	seen map[string]map[string]struct{}

	// context maps override names to their value lists. Overrides shadow
	// grammar rules of the same name for the duration of a pass.
	context     map[string][]string
	contextKeys []string // longest first, rebuilt on every context change

	depth       int
	maxDepth    int
	maxAttempts int
	rng         *rand.Rand
	log         *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed seeds the engine's randomness source. A fixed seed plus a fixed
// grammar plus a fixed call sequence reproduces identical output.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand supplies a randomness source directly. Tests use this to inject a
// deterministic source.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithMaxDepth overrides the recursion ceiling.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		e.maxDepth = depth
	}
}

// WithMaxAttempts overrides the dedup retry budget.
func WithMaxAttempts(attempts int) Option {
	return func(e *Engine) {
		e.maxAttempts = attempts
	}
}

// WithLogger routes engine diagnostics to the given logger. Diagnostics are
// Debug/Warn only; expansion anomalies never become errors.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithRuleSet starts the engine from a pre-built store instead of an empty one.
func WithRuleSet(rs *RuleSet) Option {
	return func(e *Engine) {
		e.rules = rs
	}
}

// New creates an Engine. Without WithSeed or WithRand the engine seeds
// itself from the wall clock.
func New(opts ...Option) *Engine {
	e := &Engine{
		rules:       NewRuleSet(),
		counters:    make(map[string]int),
		seen:        make(map[string]map[string]struct{}),
		context:     make(map[string][]string),
		maxDepth:    DefaultMaxDepth,
		maxAttempts: DefaultMaxAttempts,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e.matcher = newMatcher(e.rules)
	return e
}

// Rules exposes the engine's rule store for inspection.
func (e *Engine) Rules() *RuleSet {
	return e.rules
}

// Load reads a rules file (following includes) into the store and rebuilds
// the reference matcher. Fails with *LoadError on missing files or malformed
// directives; rules merged before the failure remain loaded.
func (e *Engine) Load(path string) error {
	l := &loader{rules: e.rules, log: e.log}
	err := l.loadFile(path)
	e.matcher = newMatcher(e.rules)
	return err
}

// Parse loads rule-definition text from memory. baseDir resolves relative
// .include targets.
func (e *Engine) Parse(content, baseDir string) error {
	l := &loader{rules: e.rules, log: e.log}
	err := l.parse(content, baseDir, "<inline>")
	e.matcher = newMatcher(e.rules)
	return err
}

// AddRule appends an alternative to a rule at runtime and rebuilds the
// matcher so new names become referenceable immediately.
func (e *Engine) AddRule(name, expansion string, weight int) {
	e.rules.Add(name, expansion, weight)
	e.matcher = newMatcher(e.rules)
}

// SetRule replaces a rule's alternatives with a single expansion.
func (e *Engine) SetRule(name, expansion string) {
	e.rules.Set(name, expansion)
	e.matcher = newMatcher(e.rules)
}

// SetContext installs a runtime override: every reference to name resolves
// by choosing uniformly at random from values, bypassing grammar rules
// entirely. An empty value list resolves to the empty string.
func (e *Engine) SetContext(name string, values ...string) {
	e.context[name] = values
	e.rebuildContextKeys()
}

// SetContextMap installs several overrides at once.
func (e *Engine) SetContextMap(vars map[string][]string) {
	for name, values := range vars {
		e.context[name] = values
	}
	e.rebuildContextKeys()
}

// ClearContext removes all runtime overrides.
func (e *Engine) ClearContext() {
	e.context = make(map[string][]string)
	e.contextKeys = nil
}

func (e *Engine) rebuildContextKeys() {
	keys := make([]string, 0, len(e.context))
	for k := range e.context {
		keys = append(keys, k)
	}
	// Stable order before the length sort keeps scanning deterministic
	// regardless of map iteration order.
	sort.Strings(keys)
	sortLongestFirst(keys)
	e.contextKeys = keys
}

// Reset clears counters and dedup history. The loaded grammar and any
// context overrides survive.
func (e *Engine) Reset() {
	e.counters = make(map[string]int)
	e.seen = make(map[string]map[string]struct{})
}

// Expand recursively resolves symbol into final text. Expand is total over
// well-formed input: undefined symbols come back as literals, exhausted
// dedup budgets return the last candidate, and the recursion ceiling
// degrades to a bracketed placeholder.
func (e *Engine) Expand(symbol string) string {
	return e.Resolve(symbol).Text
}

// Resolve is Expand with a tagged result.
func (e *Engine) Resolve(symbol string) Resolution {
	e.depth++
	defer func() { e.depth-- }()

	if e.depth > e.maxDepth {
		e.log.Warn("recursion ceiling reached", "symbol", symbol, "depth", e.depth)
		return Resolution{Text: "<" + symbol + ">", Kind: KindTruncated}
	}

	// Context overrides shadow grammar rules of the same name.
	if values, ok := e.context[symbol]; ok {
		if len(values) == 0 {
			return Resolution{Text: "", Kind: KindContext}
		}
		return Resolution{Text: values[e.rng.Intn(len(values))], Kind: KindContext}
	}

	// An exact rule wins even when its stored name carries a literal +/#
	// suffix; the counter operators only apply to undefined names.
	rule, ok := e.rules.Get(symbol)
	if !ok || len(rule.Expansions) == 0 {
		switch {
		case strings.HasSuffix(symbol, "+"):
			key := strings.TrimSuffix(symbol, "+")
			n := e.counters[key]
			e.counters[key] = n + 1
			return Resolution{Text: strconv.Itoa(n), Kind: KindCounter}
		case strings.HasSuffix(symbol, "#"):
			key := strings.TrimSuffix(symbol, "#")
			n := e.counters[key]
			if n == 0 {
				return Resolution{Text: "0", Kind: KindCounter}
			}
			return Resolution{Text: strconv.Itoa(e.rng.Intn(n)), Kind: KindCounter}
		default:
			return Resolution{Text: symbol, Kind: KindLiteral}
		}
	}

	var result string
	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		alt := rule.Expansions[e.rng.Intn(len(rule.Expansions))]
		result = e.expandText(alt)

		if !rule.NoDuplicates {
			return Resolution{Text: result, Kind: KindRule}
		}

		seen := e.seen[symbol]
		if seen == nil {
			seen = make(map[string]struct{})
			e.seen[symbol] = seen
		}
		if _, dup := seen[result]; !dup {
			seen[result] = struct{}{}
			return Resolution{Text: result, Kind: KindRule}
		}
	}

	// Budget exhausted: hand back the last candidate rather than failing.
	e.log.Warn("could not avoid duplicate expansion", "rule", symbol, "attempts", e.maxAttempts)
	return Resolution{Text: result, Kind: KindRule}
}

// expandText resolves every embedded reference in text, leftmost first:
// find the earliest reference, recursively resolve it, keep scanning the
// remainder. Adjacent references compose naturally through repeated
// leftmost matching.
func (e *Engine) expandText(text string) string {
	var b strings.Builder
	remaining := text
	for {
		ref, ok := e.matcher.find(remaining, e.contextKeys)
		if !ok {
			b.WriteString(remaining)
			return b.String()
		}
		b.WriteString(remaining[:ref.start])
		b.WriteString(e.Resolve(ref.symbol).Text)
		remaining = remaining[ref.end:]
	}
}
