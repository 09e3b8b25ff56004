package ga

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"windga/internal/layout"
)

func TestSegments(t *testing.T) {
	cases := map[float64]int{1.1: 2, 2.5: 3, 4.9: 5, 2.0: 2}
	for u, want := range cases {
		assert.Equal(t, want, Segments(u), "u=%v", u)
	}
}

func TestCrossoverCutCountFollowsRate(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	a := layout.Random(40, 10, rng)
	b := layout.Random(40, 10, rng)

	for _, tc := range []struct {
		u        float64
		segments int
	}{{1.1, 2}, {2.5, 3}, {4.9, 5}} {
		for _, mode := range []CrossoverMode{CrossEqual, CrossRandom} {
			off, err := Crossover(a, b, CrossoverParams{Mode: mode, Rate: tc.u, Cap: 300}, rng)
			require.NoError(t, err)
			assert.Len(t, off.Cuts, tc.segments-1, "u=%v mode=%s", tc.u, mode)
		}
	}
}

func TestCrossoverSinglePointPair(t *testing.T) {
	a := layout.FromBits([]uint8{1, 1, 1, 1, 1, 1, 1, 1})
	b := layout.FromBits([]uint8{0, 0, 0, 0, 0, 0, 0, 0})
	rng := rand.New(rand.NewSource(1))

	off, err := Crossover(a, b, CrossoverParams{Mode: CrossEqual, Rate: 1.1, Cap: 300}, rng)
	require.NoError(t, err)

	assert.Equal(t, []int{4}, off.Cuts)
	require.Len(t, off.Columns, 2)
	got := []string{off.Columns[0].String(), off.Columns[1].String()}
	assert.ElementsMatch(t, []string{"00001111", "11110000"}, got)
}

func TestCrossoverKeepParentsYieldsAllCombinations(t *testing.T) {
	a := layout.FromBits([]uint8{1, 1, 1, 1, 1, 1, 1, 1})
	b := layout.New(8)
	rng := rand.New(rand.NewSource(1))

	off, err := Crossover(a, b, CrossoverParams{Mode: CrossEqual, Rate: 1.1, Cap: 300, KeepParents: true}, rng)
	require.NoError(t, err)
	require.Len(t, off.Columns, 4)

	var got []string
	for _, c := range off.Columns {
		got = append(got, c.String())
	}
	assert.ElementsMatch(t, []string{"11111111", "00001111", "11110000", "00000000"}, got)
}

func TestCrossoverBoundedByCap(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	a := layout.Random(50, 12, rng)
	b := layout.Random(50, 12, rng)

	for _, tc := range []struct {
		u    float64
		cap  int
		keep bool
		want int
	}{
		{4.9, 10, true, 10},
		{4.9, 10, false, 10},
		{4.9, 300, true, 32},
		{4.9, 300, false, 30},
		{2.5, 5, true, 5},
		{2.5, 7, false, 6},
	} {
		off, err := Crossover(a, b, CrossoverParams{Mode: CrossRandom, Rate: tc.u, Cap: tc.cap, KeepParents: tc.keep}, rng)
		require.NoError(t, err)
		assert.Len(t, off.Columns, tc.want, "u=%v cap=%d keep=%v", tc.u, tc.cap, tc.keep)

		seen := map[uint32]bool{}
		for i, col := range off.Columns {
			assert.Equal(t, 50, col.Len())
			for _, bit := range col.Bits() {
				assert.True(t, bit == 0 || bit == 1)
			}
			assert.False(t, seen[off.Masks[i]], "duplicate combination")
			seen[off.Masks[i]] = true
		}
	}
}

func TestCrossoverChildTakesSegmentsFromMaskedParent(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	a := layout.Random(30, 15, rng)
	b := layout.Random(30, 15, rng)

	off, err := Crossover(a, b, CrossoverParams{Mode: CrossRandom, Rate: 3.2, Cap: 300}, rng)
	require.NoError(t, err)

	bounds := append(append([]int{0}, off.Cuts...), 30)
	for c, col := range off.Columns {
		for s := 0; s+1 < len(bounds); s++ {
			src := a
			if off.Masks[c]&(1<<uint(s)) != 0 {
				src = b
			}
			for i := bounds[s]; i < bounds[s+1]; i++ {
				require.Equal(t, src.Has(i), col.Has(i), "column %d cell %d", c, i)
			}
		}
	}
}

func TestCutPointsRandomSortedDistinct(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 500; i++ {
		cuts, err := CutPoints(12, 6, CrossRandom, rng)
		require.NoError(t, err)
		require.Len(t, cuts, 5)
		require.True(t, sort.IntsAreSorted(cuts))
		for k, c := range cuts {
			require.Greater(t, c, 0)
			require.Less(t, c, 12)
			if k > 0 {
				require.NotEqual(t, cuts[k-1], c)
			}
		}
	}
}

func TestCutPointsEqualIntervals(t *testing.T) {
	cuts, err := CutPoints(100, 5, CrossEqual, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{20, 40, 60, 80}, cuts)
}

func TestCrossoverErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := layout.New(8)

	_, err := Crossover(a, layout.New(9), CrossoverParams{Mode: CrossEqual, Rate: 1.5, Cap: 10}, rng)
	assert.Error(t, err)

	_, err = Crossover(a, layout.New(8), CrossoverParams{Mode: "MID", Rate: 1.5, Cap: 10}, rng)
	assert.True(t, errors.Is(err, ErrUnknownMode))

	_, err = Crossover(a, layout.New(8), CrossoverParams{Mode: CrossEqual, Rate: 1, Cap: 10}, rng)
	assert.Error(t, err, "one segment")

	_, err = Crossover(a, layout.New(8), CrossoverParams{Mode: CrossEqual, Rate: 9, Cap: 10}, rng)
	assert.Error(t, err, "more segments than cells")

	_, err = Crossover(a, layout.New(8), CrossoverParams{Mode: CrossEqual, Rate: 1.5, Cap: 0}, rng)
	assert.Error(t, err)
}

func TestParseCrossoverMode(t *testing.T) {
	m, err := ParseCrossoverMode("ran")
	require.NoError(t, err)
	assert.Equal(t, CrossRandom, m)

	_, err = ParseCrossoverMode("uniform")
	assert.ErrorIs(t, err, ErrUnknownMode)
}
