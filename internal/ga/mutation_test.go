package ga

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"windga/internal/layout"
)

func TestMutateZeroRateIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cols := []*layout.Layout{layout.Random(64, 10, rng), layout.Random(64, 20, rng)}
	before := []string{cols[0].String(), cols[1].String()}

	flips := Mutate(cols, 0, rng)

	assert.Equal(t, 0, flips)
	assert.Equal(t, before, []string{cols[0].String(), cols[1].String()})
}

func TestMutateFullRateFlipsEverything(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	col := layout.FromBits([]uint8{1, 0, 0, 1, 1, 0})

	flips := Mutate([]*layout.Layout{col}, 1, rng)

	assert.Equal(t, 6, flips)
	assert.Equal(t, "011001", col.String())
}

func TestMutateRateIsRoughlyHonoured(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cols := make([]*layout.Layout, 50)
	for i := range cols {
		cols[i] = layout.New(200)
	}

	flips := Mutate(cols, 0.05, rng)

	// 10000 trials at p=0.05
	assert.InDelta(t, 500, flips, 100)
	for _, c := range cols {
		assert.Equal(t, 200, c.Len())
	}
}

func TestAdaptiveMutationRate(t *testing.T) {
	rate, d := AdaptiveMutationRate([]float64{5, 4, 5, 3}, 0.01, 0.1)
	assert.Equal(t, 2, d)
	assert.Equal(t, 0.01, rate, "two duplicates are not convergence")

	rate, d = AdaptiveMutationRate([]float64{5, 5, 5, 5, 1, 5}, 0.01, 0.1)
	assert.Equal(t, 5, d)
	assert.InDelta(t, 0.025, rate, 1e-12)

	rate, _ = AdaptiveMutationRate([]float64{7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7}, 0.01, 0.1)
	assert.Equal(t, 0.1, rate, "capped")

	rate, _ = AdaptiveMutationRate([]float64{1, 1, 1}, 0.2, 0.1)
	assert.Equal(t, 0.2, rate, "never below base")
}

func TestDuplicateBest(t *testing.T) {
	require.Equal(t, 0, DuplicateBest(nil))
	assert.Equal(t, 1, DuplicateBest([]float64{1, 2, 3}))
	assert.Equal(t, 3, DuplicateBest([]float64{1e6, 1e6 - 1e-6, 1e6, 10}))
}
