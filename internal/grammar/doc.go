// Package grammar implements the scrivener rule engine.
//
// The engine is the heart of scrivener - it loads a context-free grammar of
// named rules and expands a start symbol into pseudo-random but well-formed
// text. Every other part of the system (paper assembly, diagram labels,
// bibliography entries) is a consumer of Engine.Expand.
//
// ARCHITECTURE:
//
// Data flows one way through four pieces:
//
//  1. The loader parses line-oriented rule files (weights, dedup markers,
//     multi-line bodies, .include directives) into a RuleSet.
//  2. The RuleSet is a pure in-memory store: name -> weighted alternatives.
//     Weight N is realized as N duplicate entries, so uniform random
//     selection over the list gives proportional selection for free.
//  3. The matcher is rebuilt from the RuleSet's current key set after every
//     load. It finds the earliest rule reference inside a text fragment,
//     preferring longer names over shorter prefixes of them (CITATION_SINGLE
//     must win over CITATION at the same position).
//  4. Engine.Expand recursively resolves references: pick a random
//     alternative, expand every embedded reference leftmost-first, retry on
//     deduplication collisions, and stop runaway grammars at a fixed
//     recursion ceiling.
//
// DETERMINISM:
//
// The engine owns its randomness source. A fixed seed plus a fixed grammar
// plus a fixed sequence of Expand calls reproduces identical output
// byte-for-byte. Nothing here touches global state.
//
// FAILURE MODEL:
//
// Expansion never fails. Undefined symbols come back as literals, exhausted
// dedup budgets return the last candidate, and the recursion ceiling degrades
// to a bracketed placeholder. The only hard errors are load-time ones:
// missing include targets and malformed directives, surfaced as *LoadError.
//
// The engine is not safe for concurrent use. Counters, dedup history, and
// context overrides are per-instance mutable state; use one engine per
// generation pass or call Reset between passes.
package grammar
