package game

import (
	"time"
)

const rngWarmup = 10

// RNG is the per-match linear congruential generator used for shuffles.
// It is owned by one match and is not safe for concurrent use.
type RNG struct {
	state uint32
	seed  uint32
}

// NewRNG creates a generator. Seed 0 derives a seed from the clock.
func NewRNG(seed uint32) *RNG {
	r := &RNG{}
	r.Seed(seed)
	return r
}

// Seed resets the stream. Seed 0 derives a seed from the clock.
func (r *RNG) Seed(seed uint32) {
	if seed == 0 {
		now := time.Now().UnixNano()
		seed = uint32(now) ^ uint32(now>>32)
		if seed == 0 {
			seed = 1
		}
	}
	r.seed = seed
	r.state = seed
	for i := 0; i < rngWarmup; i++ {
		r.Next()
	}
}

// SeedValue returns the effective seed, after clock derivation.
func (r *RNG) SeedValue() uint32 {
	return r.seed
}

// Next advances the generator and returns the new state.
func (r *RNG) Next() uint32 {
	r.state = r.state*1664525 + 1013904223
	return r.state
}

// Intn returns a value in [0, n). It returns 0 for n <= 0.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint32(n))
}

// Shuffle permutes s in place with a Fisher-Yates pass from the back.
func Shuffle[T any](r *RNG, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := int(r.Next() % uint32(i+1))
		s[i], s[j] = s[j], s[i]
	}
}
