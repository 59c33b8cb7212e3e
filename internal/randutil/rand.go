// Package randutil builds reproducible math/rand/v2 generators for shuffling
// and simulation.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a PCG-backed generator seeded deterministically from seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewFromTime seeds a generator from the wall clock. Only hosts use this;
// anything under test takes an explicit seed.
func NewFromTime() *rand.Rand {
	return New(time.Now().UnixNano())
}

// Child derives an independent generator from parent, so that fan-out work
// such as parallel simulation stays reproducible for a given parent seed.
func Child(parent *rand.Rand) *rand.Rand {
	return New(parent.Int64())
}

// splitmix64 finaliser
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
