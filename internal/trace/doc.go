// Package trace provides SQLite-backed recording of derivations.
//
// A trace is an append-only log of one run: the grammar name, seed, and
// parameter that started it, plus one row per generation carrying the
// sequence length and the canonical state hash, and one row per
// production describing which rule fired where.
//
// # Determinism properties
//
//   - All ordering uses the generation number, NEVER timestamps. The
//     started_at column on runs is informational only.
//   - Generation rows store the canonical state hash, so a recorded run
//     can be verified against a fresh derivation hash-by-hash without
//     storing the sequences themselves.
//   - Writes use ON CONFLICT DO NOTHING: re-recording a generation that
//     is already present is a silent no-op, never a divergent row.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
//
// The Run type implements lsys.Observer, so recording hooks into a
// derivation the same way any other observer does.
package trace
