package testutil

import (
	"math/rand"
)

// DeterministicPower generates strictly positive power values with a fixed
// seed, uniformly distributed in [floor, floor+scale).
func DeterministicPower(seed int64, floor, scale float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = floor + rng.Float64()*scale
	}
	return out
}

// Ramp returns nsamps*nchans values where the sample at time t and
// channel c equals t*nchans + c + 1.
func Ramp(nsamps, nchans int) []float64 {
	out := make([]float64, nsamps*nchans)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

// DC generates a constant-valued block.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}
