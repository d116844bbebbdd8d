// Package lsys implements a context-sensitive rewriting engine for
// Lindenmayer systems.
//
// A derivation starts from an axiom (an ordered sequence of typed modules)
// and a grammar (an ordered list of rewrite rules). Each call to
// System.Evolve walks the sequence left to right exactly once: for every
// position it builds the (left, direct, right) context window, scans the
// grammar's rules in registration order, and applies the first rule whose
// context requirements and optional guard are satisfied. The rule's output
// replaces the position and is flagged new; positions no rule matches are
// carried over unchanged and flagged not-new. Rule output is never
// re-scanned within the same pass.
//
// ARCHITECTURE:
//
// Single-Owner Sequential Evaluation:
// A derivation lineage is evolved from exactly one goroutine. The random
// source cursor and the shared parameter value are the only state with
// cross-call identity; both are owned by the lineage and advance strictly
// in evaluation order. This ensures:
//   - Predictable rule evaluation order
//   - Reproducible derivations from a seed
//   - Simple reasoning about parameter visibility
//
// Determinism:
// Rules are evaluated in declaration order, first match wins, and a seeded
// random source replaces all ambient randomness. Two derivations of the
// same grammar, axiom, seed, and parameter are byte-identical generation
// by generation. Producers must draw a fixed number of random values per
// matched context for this to hold.
//
// Typed production:
// Rules declare the concrete module types they operate on through the
// generic constructors (Rewrite, RewriteLeft, RewriteRight,
// RewriteBetween). A kind registered against the wrong Go type fails the
// checked downcast with a ContractViolationError instead of producing
// corrupt output.
package lsys
