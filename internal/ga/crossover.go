package ga

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"windga/internal/layout"
)

// CrossoverMode picks how cut points are placed
type CrossoverMode string

const (
	CrossEqual  CrossoverMode = "EQU"
	CrossRandom CrossoverMode = "RAN"
)

// combinations are enumerated as uint32 masks
const maxSegments = 30

// ParseCrossoverMode validates a crossover mode name (case-insensitive)
func ParseCrossoverMode(s string) (CrossoverMode, error) {
	switch m := CrossoverMode(strings.ToUpper(strings.TrimSpace(s))); m {
	case CrossEqual, CrossRandom:
		return m, nil
	default:
		return "", fmt.Errorf("crossover %q: %w", s, ErrUnknownMode)
	}
}

// CrossoverParams configures segment crossover
type CrossoverParams struct {
	Mode        CrossoverMode
	Rate        float64 // u; segments = ceil(u)
	Cap         int     // uplimit on offspring per pair
	KeepParents bool    // keep the all-A and all-B combinations
}

// Offspring is the binary matrix produced from one parent pair: one column
// per child, each column covering every grid cell.
type Offspring struct {
	Cuts    []int
	Masks   []uint32 // bit j set: segment j came from parent B
	Columns []*layout.Layout
}

// Segments returns the number of crossover segments for rate u
func Segments(u float64) int {
	return int(math.Ceil(u))
}

// Combinations returns how many children a pair can produce before the cap
func Combinations(segments int, keepParents bool) int {
	total := 1 << uint(segments)
	if !keepParents {
		total -= 2
	}
	return total
}

// CutPoints places segments-1 ascending, distinct cuts inside (0, n)
func CutPoints(n, segments int, mode CrossoverMode, rng *rand.Rand) ([]int, error) {
	if segments < 2 {
		return nil, fmt.Errorf("crossover needs at least 2 segments, got %d", segments)
	}
	if segments > n {
		return nil, fmt.Errorf("%d segments do not fit %d cells", segments, n)
	}

	cuts := make([]int, segments-1)
	switch mode {
	case CrossEqual:
		for k := 1; k < segments; k++ {
			cuts[k-1] = k * n / segments
		}
	case CrossRandom:
		if rng == nil {
			return nil, errors.New("random source is required")
		}
		for i, c := range sampleIndices(n-1, segments-1, rng) {
			cuts[i] = c + 1
		}
	default:
		return nil, fmt.Errorf("crossover %q: %w", mode, ErrUnknownMode)
	}
	sort.Ints(cuts)
	return cuts, nil
}

// Crossover recombines two parents segment-wise. Every source assignment of
// segments to parents is a child; when there are more than Cap of them a
// uniform subset of Cap is kept.
func Crossover(a, b *layout.Layout, p CrossoverParams, rng *rand.Rand) (*Offspring, error) {
	if a.Len() != b.Len() {
		return nil, fmt.Errorf("parent lengths differ: %d vs %d", a.Len(), b.Len())
	}
	if p.Cap < 1 {
		return nil, fmt.Errorf("permutation cap must be at least 1, got %d", p.Cap)
	}
	segments := Segments(p.Rate)
	if segments > maxSegments {
		return nil, fmt.Errorf("%d segments exceed the limit of %d", segments, maxSegments)
	}

	n := a.Len()
	cuts, err := CutPoints(n, segments, p.Mode, rng)
	if err != nil {
		return nil, err
	}

	bounds := make([]int, 0, segments+1)
	bounds = append(bounds, 0)
	bounds = append(bounds, cuts...)
	bounds = append(bounds, n)

	total := Combinations(segments, p.KeepParents)
	picks := sampleIndices(total, p.Cap, rng)

	out := &Offspring{
		Cuts:    cuts,
		Masks:   make([]uint32, len(picks)),
		Columns: make([]*layout.Layout, len(picks)),
	}
	for c, idx := range picks {
		mask := uint32(idx)
		if !p.KeepParents {
			// skip the all-A mask 0
			mask++
		}
		child := layout.New(n)
		for s := 0; s < segments; s++ {
			src := a
			if mask&(1<<uint(s)) != 0 {
				src = b
			}
			for i := bounds[s]; i < bounds[s+1]; i++ {
				if src.Has(i) {
					child.Set(i)
				}
			}
		}
		out.Masks[c] = mask
		out.Columns[c] = child
	}
	return out, nil
}
