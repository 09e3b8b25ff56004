package fitness

import (
	"sort"

	"windga/internal/layout"
)

// Record is the evaluation row of one occupied cell. Layout-wide metrics
// (Energy, Efficiency, ParkFitness) repeat on every row of the same layout.
type Record struct {
	CellID      int     `json:"rect_id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Energy      float64 `json:"energy_overall"` // total layout yield, kWh
	Efficiency  float64 `json:"effic_all_dir"`  // layout yield / ideal yield, %
	WakeLoss    float64 `json:"absch_gesamt"`   // wake loss at this turbine, %
	ParkFitness float64 `json:"parkfitness"`
}

// Evaluator scores a layout. Implementations must not mutate shared state.
type Evaluator interface {
	Evaluate(l *layout.Layout) ([]Record, error)
}

// EvaluatorFunc adapts a function to Evaluator
type EvaluatorFunc func(l *layout.Layout) ([]Record, error)

func (f EvaluatorFunc) Evaluate(l *layout.Layout) ([]Record, error) {
	return f(l)
}

// Dedup keeps the first row per cell id and orders the result by energy
// descending, then by cell id.
func Dedup(rows []Record) []Record {
	seen := make(map[int]struct{}, len(rows))
	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		if _, ok := seen[r.CellID]; ok {
			continue
		}
		seen[r.CellID] = struct{}{}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Energy != out[j].Energy {
			return out[i].Energy > out[j].Energy
		}
		return out[i].CellID < out[j].CellID
	})
	return out
}
