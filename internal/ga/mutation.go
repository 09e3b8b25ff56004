package ga

import (
	"math"
	"math/rand"

	"windga/internal/layout"
)

// relative tolerance for treating two fitness values as the same optimum
const duplicateTolerance = 1e-9

// Mutate flips every bit of every column independently with probability p,
// in place. It returns the number of flipped bits. Turbine counts are left
// for Repair to restore.
func Mutate(columns []*layout.Layout, p float64, rng *rand.Rand) int {
	flips := 0
	for _, col := range columns {
		for i := 0; i < col.Len(); i++ {
			if rng.Float64() < p {
				col.Flip(i)
				flips++
			}
		}
	}
	return flips
}

// AdaptiveMutationRate raises the base rate when more than two individuals
// share the best fitness, a sign of premature convergence. The raised rate
// is base*d/2 for d duplicates, capped at max(limit, base).
func AdaptiveMutationRate(fitnesses []float64, base, limit float64) (float64, int) {
	d := DuplicateBest(fitnesses)
	if d <= 2 {
		return base, d
	}
	rate := base * float64(d) / 2
	return math.Min(rate, math.Max(limit, base)), d
}

// DuplicateBest counts how many values equal the maximum
func DuplicateBest(fitnesses []float64) int {
	if len(fitnesses) == 0 {
		return 0
	}
	best := fitnesses[0]
	for _, f := range fitnesses[1:] {
		if f > best {
			best = f
		}
	}
	tol := duplicateTolerance * math.Max(1, math.Abs(best))
	d := 0
	for _, f := range fitnesses {
		if best-f <= tol {
			d++
		}
	}
	return d
}
