package utils

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mathext/prng"
)

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// NewRand returns a Mersenne Twister backed generator seeded once. A run owns
// its generator: engines and policies of the same run share it, separate runs
// never do.
func NewRand(seed uint64) *rand.Rand {
	source := prng.NewMT19937()
	source.Seed(seed)
	return rand.New(source)
}
