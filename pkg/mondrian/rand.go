package mondrian

import "math/rand/v2"

// Rand is the random source consumed by the painter and its strategies.
// IntN returns a uniform integer in [0, n); n is always positive.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a PCG-backed source seeded from seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// RandomSeed returns a non-zero seed from the runtime's global source.
func RandomSeed() uint64 {
	for {
		if s := rand.Uint64(); s != 0 {
			return s
		}
	}
}
