package grammar

import "fmt"

// Rule is a single named grammar production.
//
// Expansions is the selection population: an alternative added with weight N
// appears N times, so picking uniformly at random over Expansions yields
// weighted selection. Weights records the weight each entry was added with
// and always stays the same length as Expansions.
type Rule struct {
	Name         string
	Expansions   []string
	Weights      []int
	NoDuplicates bool
}

// NewRule creates a rule with pre-populated expansions.
//
// Returns an error if weights is non-empty and its length does not match
// expansions - that mismatch is a contract violation, not a recoverable
// condition.
func NewRule(name string, expansions []string, weights []int) (*Rule, error) {
	if len(weights) != 0 && len(weights) != len(expansions) {
		return nil, fmt.Errorf("rule %q: weights length (%d) must match expansions length (%d)",
			name, len(weights), len(expansions))
	}
	r := &Rule{
		Name:       name,
		Expansions: append([]string(nil), expansions...),
		Weights:    append([]int(nil), weights...),
	}
	if len(r.Weights) == 0 {
		for range r.Expansions {
			r.Weights = append(r.Weights, 1)
		}
	}
	return r, nil
}

// AddExpansion appends an alternative, inserted weight times to realize
// proportional random selection. Weights below 1 are treated as 1.
func (r *Rule) AddExpansion(expansion string, weight int) {
	if weight < 1 {
		weight = 1
	}
	for i := 0; i < weight; i++ {
		r.Expansions = append(r.Expansions, expansion)
		r.Weights = append(r.Weights, weight)
	}
}

// RuleSet is the in-memory rule store filled by the loader.
//
// Rules are merged, never replaced: a second definition line for an existing
// name concatenates its alternatives, which lets a rule be defined additively
// across an included chain of files. Insertion order is preserved so that
// matcher construction is deterministic.
//
// includedFiles tracks already-processed sources by resolved path, making
// .include idempotent even with diamond or cyclic include graphs.
type RuleSet struct {
	rules         map[string]*Rule
	order         []string
	includedFiles map[string]bool

	// Metadata is free-form ruleset annotation (source labels, versions).
	Metadata map[string]string
}

// NewRuleSet creates an empty rule store.
func NewRuleSet() *RuleSet {
	return &RuleSet{
		rules:         make(map[string]*Rule),
		includedFiles: make(map[string]bool),
		Metadata:      make(map[string]string),
	}
}

// Add appends an alternative to the named rule, creating the rule on first
// use. The dedup flag of an existing rule is preserved.
func (rs *RuleSet) Add(name, expansion string, weight int) {
	r, ok := rs.rules[name]
	if !ok {
		r = &Rule{Name: name}
		rs.rules[name] = r
		rs.order = append(rs.order, name)
	}
	r.AddExpansion(expansion, weight)
}

// Set replaces the named rule's alternatives with a single expansion.
// Used for per-document rule rewrites such as citation labels.
func (rs *RuleSet) Set(name, expansion string) {
	r, ok := rs.rules[name]
	if !ok {
		r = &Rule{Name: name}
		rs.rules[name] = r
		rs.order = append(rs.order, name)
	}
	r.Expansions = []string{expansion}
	r.Weights = []int{1}
}

// MarkNoDuplicates flags the named rule as deduplicating, creating an empty
// rule if none exists yet. The marker line may appear before, after, or
// entirely independent of the rule's expansion lines.
func (rs *RuleSet) MarkNoDuplicates(name string) {
	r, ok := rs.rules[name]
	if !ok {
		r = &Rule{Name: name}
		rs.rules[name] = r
		rs.order = append(rs.order, name)
	}
	r.NoDuplicates = true
}

// Merge adds a pre-built rule, concatenating alternatives if the name exists.
func (rs *RuleSet) Merge(rule *Rule) {
	existing, ok := rs.rules[rule.Name]
	if !ok {
		rs.rules[rule.Name] = rule
		rs.order = append(rs.order, rule.Name)
		return
	}
	existing.Expansions = append(existing.Expansions, rule.Expansions...)
	existing.Weights = append(existing.Weights, rule.Weights...)
	if rule.NoDuplicates {
		existing.NoDuplicates = true
	}
}

// Get returns the named rule, or false if it is not defined.
func (rs *RuleSet) Get(name string) (*Rule, bool) {
	r, ok := rs.rules[name]
	return r, ok
}

// Contains reports whether a rule exists under name.
func (rs *RuleSet) Contains(name string) bool {
	_, ok := rs.rules[name]
	return ok
}

// Len returns the number of distinct rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Names returns rule names in insertion order. The matcher relies on this
// for reproducible construction.
func (rs *RuleSet) Names() []string {
	return append([]string(nil), rs.order...)
}

// markIncluded records a resolved source path, returning false if the path
// was already processed.
func (rs *RuleSet) markIncluded(path string) bool {
	if rs.includedFiles[path] {
		return false
	}
	rs.includedFiles[path] = true
	return true
}
