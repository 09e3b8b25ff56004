package fitness

import (
	"gonum.org/v1/gonum/stat"
)

// CellStats holds the generation-wide averages of one grid cell
type CellStats struct {
	CellID      int
	ParkFitness float64
	WakeLoss    float64
	Count       int // rows contributing to the averages
}

// Aggregate groups the rows of a whole generation by cell id and averages
// park fitness and wake loss per cell. Cells never occupied are absent.
func Aggregate(rows []Record) map[int]CellStats {
	fit := make(map[int][]float64)
	wake := make(map[int][]float64)
	for _, r := range rows {
		fit[r.CellID] = append(fit[r.CellID], r.ParkFitness)
		wake[r.CellID] = append(wake[r.CellID], r.WakeLoss)
	}

	out := make(map[int]CellStats, len(fit))
	for id, f := range fit {
		out[id] = CellStats{
			CellID:      id,
			ParkFitness: stat.Mean(f, nil),
			WakeLoss:    stat.Mean(wake[id], nil),
			Count:       len(f),
		}
	}
	return out
}

// Summary describes the fitness spread of one generation
type Summary struct {
	Best float64
	Mean float64
	Std  float64
	N    int
}

// Summarize computes best, mean and standard deviation of fitness values
func Summarize(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}
	best := values[0]
	for _, v := range values[1:] {
		if v > best {
			best = v
		}
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	return Summary{Best: best, Mean: mean, Std: std, N: n}
}
