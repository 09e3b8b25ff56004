package ga

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"windga/internal/layout"
)

func scoredPopulation(fitnesses ...float64) *Population {
	p := &Population{Individuals: make([]*Individual, len(fitnesses))}
	for i, f := range fitnesses {
		p.Individuals[i] = &Individual{
			Layout:    layout.New(4),
			Fitness:   f,
			Evaluated: true,
		}
	}
	return p
}

func fixedParams(frac float64) SelectionParams {
	return SelectionParams{Mode: SelectFixed, Fraction: frac}
}

func TestSelectFixedTakesTopShare(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pop := scoredPopulation(3, 9, 1, 7, 5, 2, 8, 4, 6, 10)

	sel, err := Select(pop, fixedParams(0.4), rng)
	require.NoError(t, err)

	assert.Equal(t, 4, sel.Parents)
	require.Len(t, sel.Pairs, 2)
	got := map[float64]bool{}
	for _, p := range sel.Pairs {
		got[p.A.Fitness] = true
		got[p.B.Fitness] = true
	}
	assert.Equal(t, map[float64]bool{10: true, 9: true, 8: true, 7: true}, got)
}

func TestSelectOddParentCountPairsEveryone(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	pop := scoredPopulation(1, 2, 3, 4, 5)

	sel, err := Select(pop, fixedParams(0.6), rng)
	require.NoError(t, err)
	require.Equal(t, 3, sel.Parents)
	require.Len(t, sel.Pairs, 2)

	seen := map[float64]int{}
	for _, p := range sel.Pairs {
		assert.NotSame(t, p.A, p.B)
		seen[p.A.Fitness]++
		seen[p.B.Fitness]++
	}
	assert.Len(t, seen, 3)
}

func TestSelectAtLeastTwoParents(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	sel, err := Select(scoredPopulation(1, 2, 3, 4), fixedParams(0.01), rng)
	require.NoError(t, err)
	assert.Equal(t, 2, sel.Parents)
	assert.Len(t, sel.Pairs, 1)
}

func TestSelectElitesAreTopClones(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pop := scoredPopulation(3, 9, 1, 7, 5)
	p := fixedParams(0.5)
	p.Elitism = true
	p.EliteCount = 2

	sel, err := Select(pop, p, rng)
	require.NoError(t, err)
	require.Len(t, sel.Elites, 2)
	assert.Equal(t, 9.0, sel.Elites[0].Fitness)
	assert.Equal(t, 7.0, sel.Elites[1].Fitness)
	assert.NotSame(t, pop.Individuals[0], sel.Elites[0])
	assert.NotSame(t, pop.Individuals[0].Layout, sel.Elites[0].Layout)

	p.Elitism = false
	sel, err = Select(pop, p, rng)
	require.NoError(t, err)
	assert.Empty(t, sel.Elites)
}

func TestVariableFractionGrowsWithDispersion(t *testing.T) {
	converged := []float64{100, 100.1, 99.9, 100}
	mixed := []float64{100, 110, 90, 100}
	diverse := []float64{100, 160, 40, 100}

	a := VariableFraction(converged, 0.2, 0.8)
	b := VariableFraction(mixed, 0.2, 0.8)
	c := VariableFraction(diverse, 0.2, 0.8)

	assert.Less(t, a, b)
	assert.Less(t, b, c)
	assert.GreaterOrEqual(t, a, 0.2)
	assert.LessOrEqual(t, c, 0.8)
	assert.InDelta(t, 0.2, VariableFraction([]float64{5, 5, 5}, 0.2, 0.8), 1e-12)
}

func TestSelectVariableUsesDispersion(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := SelectionParams{Mode: SelectVariable, MinFraction: 0.2, MaxFraction: 0.9}

	narrow, err := Select(scoredPopulation(100, 100, 100, 100, 100, 100, 100, 100, 100, 101), p, rng)
	require.NoError(t, err)
	broad, err := Select(scoredPopulation(10, 200, 30, 150, 5, 90, 60, 120, 1, 180), p, rng)
	require.NoError(t, err)

	assert.Less(t, narrow.Fraction, broad.Fraction)
	assert.Less(t, narrow.Parents, broad.Parents)
}

func TestSelectErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := Select(scoredPopulation(1, 2), SelectionParams{Mode: "TOP"}, rng)
	assert.ErrorIs(t, err, ErrUnknownMode)

	_, err = Select(scoredPopulation(1), fixedParams(0.5), rng)
	assert.Error(t, err)

	_, err = Select(scoredPopulation(1, 2), fixedParams(0.5), nil)
	assert.Error(t, err)
}

func TestParseSelectionMode(t *testing.T) {
	m, err := ParseSelectionMode(" var ")
	require.NoError(t, err)
	assert.Equal(t, SelectVariable, m)

	_, err = ParseSelectionMode("roulette")
	assert.ErrorIs(t, err, ErrUnknownMode)
}
