package utils

import "math/rand"

// RandomFloatRange returns a random float64 in [min, max). An empty or
// inverted range returns min.
func RandomFloatRange(min, max float64) float64 {
	if min >= max {
		return min
	}
	return min + rand.Float64()*(max-min) //nolint:gosec // price simulation, not security critical
}

// RandomSign returns a random value in [-1, 1)
func RandomSign() float64 {
	return RandomFloatRange(-1, 1)
}
