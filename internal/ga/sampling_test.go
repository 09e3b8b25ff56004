package ga

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleIndicesDistinctAndBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 200; trial++ {
		out := sampleIndices(1<<20, 25, rng)
		require.Len(t, out, 25)
		require.True(t, sort.IntsAreSorted(out))
		for i := 1; i < len(out); i++ {
			require.NotEqual(t, out[i-1], out[i])
		}
		require.GreaterOrEqual(t, out[0], 0)
		require.Less(t, out[len(out)-1], 1<<20)
	}
}

func TestSampleIndicesAllWhenKCoversN(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	assert.Equal(t, []int{0, 1, 2}, sampleIndices(3, 5, rng))
}

func TestSampleUniformDistinct(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	items := []int{10, 20, 30, 40}
	out := sampleUniform(items, 3, rng)
	require.Len(t, out, 3)
	seen := map[int]bool{}
	for _, v := range out {
		assert.Contains(t, items, v)
		assert.False(t, seen[v])
		seen[v] = true
	}
}

func TestSampleWeightedFollowsWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	items := []int{0, 1}
	weights := []float64{1, 9}

	counts := [2]int{}
	for i := 0; i < 5000; i++ {
		counts[sampleWeighted(items, weights, 1, rng)[0]]++
	}
	frac := float64(counts[1]) / 5000
	assert.InDelta(t, 0.9, frac, 0.03)
}

func TestSampleWeightedWithoutReplacement(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	items := []int{5, 6, 7, 8}
	out := sampleWeighted(items, []float64{1, 100, 1, 1}, 4, rng)
	assert.ElementsMatch(t, items, out)
}

func TestSampleWeightedZeroWeightsFallsBackToUniform(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	out := sampleWeighted([]int{1, 2, 3}, []float64{0, 0, 0}, 2, rng)
	require.Len(t, out, 2)
	assert.NotEqual(t, out[0], out[1])
}
