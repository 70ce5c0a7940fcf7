package ai

import "math/rand"

// pkgRng is the package-level random source used to seed selectors that were
// not given an explicit seed. When nil, seeding falls back to the global
// math/rand default. Use SeedRng to set a deterministic source for
// reproducible tests and benchmarks.
var pkgRng *rand.Rand

// SeedRng sets a deterministic random source for reproducible selector
// behavior.
func SeedRng(seed int64) {
	pkgRng = rand.New(rand.NewSource(seed))
}

// ResetRng reverts to the default (non-deterministic) global random source.
func ResetRng() {
	pkgRng = nil
}

func rngInt63() int64 {
	if pkgRng != nil {
		return pkgRng.Int63()
	}
	return rand.Int63()
}

// newRng returns a selector-local generator: seeded deterministically when
// seed is non-zero, otherwise drawn from the package source.
func newRng(seed int64) *rand.Rand {
	if seed == 0 {
		seed = rngInt63()
	}
	return rand.New(rand.NewSource(seed))
}
