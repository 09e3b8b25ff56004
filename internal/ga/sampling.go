package ga

import (
	"math/rand"
	"sort"

	"windga/internal/layout"
)

// sampleIndices draws k distinct integers from [0, n) uniformly using
// Floyd's algorithm, so n may be far larger than k. Result is ascending.
func sampleIndices(n, k int, rng *rand.Rand) []int {
	if k >= n {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	chosen := make(map[int]struct{}, k)
	out := make([]int, 0, k)
	for j := n - k; j < n; j++ {
		t := rng.Intn(j + 1)
		if _, ok := chosen[t]; ok {
			t = j
		}
		chosen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Ints(out)
	return out
}

// sampleUniform draws k distinct elements of items in draw order
func sampleUniform(items []int, k int, rng *rand.Rand) []int {
	if k > len(items) {
		k = len(items)
	}
	perm := rng.Perm(len(items))
	out := make([]int, k)
	for i := 0; i < k; i++ {
		out[i] = items[perm[i]]
	}
	return out
}

// sampleWeighted draws k distinct elements of items without replacement,
// each draw proportional to the remaining weights. Non-positive total
// weight falls back to a uniform draw over what is left.
func sampleWeighted(items []int, weights []float64, k int, rng *rand.Rand) []int {
	if k > len(items) {
		k = len(items)
	}
	pool := make([]int, len(items))
	copy(pool, items)
	w := make([]float64, len(weights))
	copy(w, weights)

	out := make([]int, 0, k)
	for len(out) < k {
		var total float64
		for _, x := range w {
			total += x
		}

		pick := len(pool) - 1
		if total > 0 {
			r := rng.Float64() * total
			for i, x := range w {
				r -= x
				if r < 0 {
					pick = i
					break
				}
			}
		} else {
			pick = rng.Intn(len(pool))
		}

		out = append(out, pool[pick])
		pool = append(pool[:pick], pool[pick+1:]...)
		w = append(w[:pick], w[pick+1:]...)
	}
	return out
}

// Subsample keeps k columns chosen uniformly without replacement, in their
// original order. All columns are returned when k >= len(columns).
func Subsample(columns []*layout.Layout, k int, rng *rand.Rand) []*layout.Layout {
	if k >= len(columns) {
		return columns
	}
	out := make([]*layout.Layout, k)
	for i, idx := range sampleIndices(len(columns), k, rng) {
		out[i] = columns[idx]
	}
	return out
}
