package ga

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// ErrUnknownMode is returned for unrecognised selection or crossover modes
var ErrUnknownMode = errors.New("unknown mode")

// SelectionMode picks how much of the ranking breeds
type SelectionMode string

const (
	SelectFixed    SelectionMode = "FIX"
	SelectVariable SelectionMode = "VAR"
)

// dispersion at which VAR selection sits halfway between its bounds
const dispersionHalfSaturation = 0.05

// ParseSelectionMode validates a selection mode name (case-insensitive)
func ParseSelectionMode(s string) (SelectionMode, error) {
	switch m := SelectionMode(strings.ToUpper(strings.TrimSpace(s))); m {
	case SelectFixed, SelectVariable:
		return m, nil
	default:
		return "", fmt.Errorf("selection %q: %w", s, ErrUnknownMode)
	}
}

// SelectionParams configures parent selection
type SelectionParams struct {
	Mode        SelectionMode
	Fraction    float64 // FIX share of the ranking
	MinFraction float64 // VAR lower bound
	MaxFraction float64 // VAR upper bound
	Elitism     bool
	EliteCount  int
}

// Pair is one couple of parents for crossover
type Pair struct {
	A, B *Individual
}

// Selection is the outcome of one selection step
type Selection struct {
	Pairs    []Pair
	Elites   []*Individual
	Fraction float64 // share of the ranking that was selected
	Parents  int
}

// Select ranks the population by fitness and draws breeding pairs from the
// selected top share. Elites are cloned when elitism is on.
func Select(pop *Population, p SelectionParams, rng *rand.Rand) (Selection, error) {
	if rng == nil {
		return Selection{}, errors.New("random source is required")
	}
	n := pop.Size()
	if n < 2 {
		return Selection{}, fmt.Errorf("need at least 2 individuals to select parents, got %d", n)
	}

	var frac float64
	switch p.Mode {
	case SelectFixed:
		frac = p.Fraction
	case SelectVariable:
		frac = VariableFraction(pop.Fitnesses(), p.MinFraction, p.MaxFraction)
	default:
		return Selection{}, fmt.Errorf("selection %q: %w", p.Mode, ErrUnknownMode)
	}

	pop.SortByFitness()

	count := int(math.Ceil(frac * float64(n)))
	if count < 2 {
		count = 2
	}
	if count > n {
		count = n
	}
	parents := pop.Individuals[:count]

	sel := Selection{Fraction: frac, Parents: count}

	if p.Elitism {
		k := p.EliteCount
		if k > n {
			k = n
		}
		sel.Elites = make([]*Individual, k)
		for i := 0; i < k; i++ {
			sel.Elites[i] = pop.Individuals[i].Clone()
		}
	}

	order := rng.Perm(count)
	sel.Pairs = make([]Pair, 0, (count+1)/2)
	for i := 0; i+1 < count; i += 2 {
		sel.Pairs = append(sel.Pairs, Pair{A: parents[order[i]], B: parents[order[i+1]]})
	}
	if count%2 == 1 {
		last := order[count-1]
		other := rng.Intn(count - 1)
		if other >= last {
			other++
		}
		sel.Pairs = append(sel.Pairs, Pair{A: parents[last], B: parents[other]})
	}

	return sel, nil
}

// VariableFraction maps the coefficient of variation of fitness onto
// [lo, hi]. More spread selects a broader share of the ranking.
func VariableFraction(fitnesses []float64, lo, hi float64) float64 {
	cv := Dispersion(fitnesses)
	return lo + (hi-lo)*cv/(cv+dispersionHalfSaturation)
}

// Dispersion returns the coefficient of variation of values, or the plain
// standard deviation when the mean is zero.
func Dispersion(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return std
	}
	return std / math.Abs(mean)
}
