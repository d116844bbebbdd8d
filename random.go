package lsys

import (
	"math/rand"
)

// RandomSource is the seeded deterministic generator threaded into
// stochastic producers.
//
// The same seed plus the same sequence of draw calls yields the same
// values on every run, independent of wall clock or process identity.
// Every System in one derivation lineage shares a single RandomSource;
// its cursor advances in strict evaluation order, so sharing a source
// across concurrently evolving lineages breaks reproducibility.
type RandomSource struct {
	rng   *rand.Rand
	seed  int64
	draws int64
}

// NewRandomSource creates a RandomSource from a seed.
func NewRandomSource(seed int64) *RandomSource {
	return &RandomSource{
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Float64 draws the next value in [0, 1).
func (r *RandomSource) Float64() float64 {
	r.draws++
	return r.rng.Float64()
}

// Intn draws a uniform int in [0, n). Panics if n <= 0.
func (r *RandomSource) Intn(n int) int {
	r.draws++
	return r.rng.Intn(n)
}

// Seed returns the seed the source was created with.
func (r *RandomSource) Seed() int64 {
	return r.seed
}

// Draws returns the number of values drawn so far.
// Used for logging and diagnostics; reproducibility requires producers to
// draw a fixed count per matched context.
func (r *RandomSource) Draws() int64 {
	return r.draws
}

// Pick returns one element of values chosen uniformly from r.
// Draws exactly one value. Panics if values is empty.
func Pick[T any](r *RandomSource, values []T) T {
	if len(values) == 0 {
		panic("lsys: Pick requires at least one value")
	}
	return values[r.Intn(len(values))]
}
