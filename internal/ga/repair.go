package ga

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"windga/internal/fitness"
	"windga/internal/layout"
)

// DefaultRepairExponent is k in the deletion weight npt0^k / npt
const DefaultRepairExponent = 0.5

// RepairParams configures turbine count repair
type RepairParams struct {
	Turbines int
	Force    bool // weighted sampling instead of uniform
}

// RepairStats counts what one repair pass changed
type RepairStats struct {
	Trimmed   int `json:"trimmed"` // columns that had a surplus
	Filled    int `json:"filled"`  // columns that had a deficit
	Unchanged int `json:"unchanged"`
	Removed   int `json:"removed"` // turbines removed in total
	Added     int `json:"added"`   // turbines added in total
}

// RepairWeights is a read-only snapshot of per-cell sampling weights
// derived from one generation's aggregated fitness table. Index i is the
// layout bit of cell id i+1.
type RepairWeights struct {
	Delete []float64
	Add    []float64
}

// NewRepairWeights builds deletion and addition weights for all nGrids
// cells. With npt = 1 + (maxWake-wake)/(1+maxWake) and
// npt0 = 1 + (maxFit-fit)/(1+maxFit), deletion uses npt0^k/npt and
// addition uses npt/npt0^k. Cells missing from stats take the mean wake
// loss and park fitness for deletion, and the smallest observed addition
// weight for addition.
func NewRepairWeights(nGrids int, stats map[int]fitness.CellStats, k float64) *RepairWeights {
	w := &RepairWeights{
		Delete: make([]float64, nGrids),
		Add:    make([]float64, nGrids),
	}
	if len(stats) == 0 {
		floats.AddConst(1, w.Delete)
		floats.AddConst(1, w.Add)
		return w
	}

	// sorted ids keep the float sums reproducible
	ids := make([]int, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	wake := make([]float64, len(ids))
	fit := make([]float64, len(ids))
	for k, id := range ids {
		wake[k] = stats[id].WakeLoss
		fit[k] = stats[id].ParkFitness
	}
	maxWake := floats.Max(wake)
	maxFit := floats.Max(fit)
	meanWake := stat.Mean(wake, nil)
	meanFit := stat.Mean(fit, nil)

	npt := func(v float64) float64 { return 1 + (maxWake-v)/(1+maxWake) }
	npt0 := func(v float64) float64 { return 1 + (maxFit-v)/(1+maxFit) }

	minAdd := math.Inf(1)
	present := make([]bool, nGrids)
	for i := 0; i < nGrids; i++ {
		s, ok := stats[i+1]
		if !ok {
			w.Delete[i] = math.Pow(npt0(meanFit), k) / npt(meanWake)
			continue
		}
		present[i] = true
		w.Delete[i] = math.Pow(npt0(s.ParkFitness), k) / npt(s.WakeLoss)
		w.Add[i] = npt(s.WakeLoss) / math.Pow(npt0(s.ParkFitness), k)
		if w.Add[i] < minAdd {
			minAdd = w.Add[i]
		}
	}
	if math.IsInf(minAdd, 1) {
		minAdd = 1
	}
	for i := range w.Add {
		if !present[i] {
			w.Add[i] = minAdd
		}
	}
	return w
}

// Repair restores every column to exactly p.Turbines set bits, in place.
// Surplus turbines are removed from occupied cells and deficits are filled
// from free cells, sampled without replacement. Weights are only consulted
// when p.Force is set.
func Repair(columns []*layout.Layout, w *RepairWeights, p RepairParams, rng *rand.Rand) (RepairStats, error) {
	var st RepairStats
	if rng == nil {
		return st, errors.New("random source is required")
	}
	if p.Force && w == nil {
		return st, errors.New("weighted repair needs repair weights")
	}
	for c, col := range columns {
		if p.Turbines < 1 || p.Turbines > col.Len() {
			return st, fmt.Errorf("column %d: %d turbines do not fit %d cells", c, p.Turbines, col.Len())
		}
		if p.Force && (len(w.Delete) != col.Len() || len(w.Add) != col.Len()) {
			return st, fmt.Errorf("column %d: weights cover %d cells, layout has %d", c, len(w.Delete), col.Len())
		}

		removed, added := RepairOne(col, w, p, rng)
		switch {
		case removed > 0:
			st.Trimmed++
			st.Removed += removed
		case added > 0:
			st.Filled++
			st.Added += added
		default:
			st.Unchanged++
		}
	}
	return st, nil
}

// RepairOne repairs a single layout and reports how many turbines it
// removed and added. The caller guarantees 1 <= p.Turbines <= l.Len().
func RepairOne(l *layout.Layout, w *RepairWeights, p RepairParams, rng *rand.Rand) (int, int) {
	surplus := l.Count() - p.Turbines
	switch {
	case surplus > 0:
		occ := l.Occupied()
		var drop []int
		if p.Force {
			drop = sampleWeighted(occ, pick(w.Delete, occ), surplus, rng)
		} else {
			drop = sampleUniform(occ, surplus, rng)
		}
		for _, i := range drop {
			l.Clear(i)
		}
		return len(drop), 0
	case surplus < 0:
		free := l.Free()
		var add []int
		if p.Force {
			add = sampleWeighted(free, pick(w.Add, free), -surplus, rng)
		} else {
			add = sampleUniform(free, -surplus, rng)
		}
		for _, i := range add {
			l.Set(i)
		}
		return 0, len(add)
	default:
		return 0, 0
	}
}

func pick(weights []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for k, i := range idx {
		out[k] = weights[i]
	}
	return out
}
