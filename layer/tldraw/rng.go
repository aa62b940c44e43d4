package tldraw

import (
	"hash/fnv"
	"math/rand/v2"
)

// seededRand returns a PRNG deterministically seeded from id, so that
// jittered corners, ellipse angular offsets, and ease-function choices are
// reproducible across runs of the same event log (spec.md §4.7.6).
func seededRand(id string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	seed := h.Sum64()
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}
