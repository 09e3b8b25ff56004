package fitness

import (
	"errors"
	"fmt"
	"math"

	"windga/internal/grid"
	"windga/internal/layout"
)

const defaultWakeDecay = 0.075

// Scenario is one wind condition: free-stream speed (m/s), direction the
// wind blows from (degrees, 0 = north, clockwise) and its probability.
type Scenario struct {
	Speed       float64
	Direction   float64
	Probability float64
}

// Turbine describes the rotor used for every placement
type Turbine struct {
	RotorRadius       float64
	HubHeight         float64
	ThrustCoefficient float64
	PowerCoefficient  float64
	AirDensity        float64
}

// JensenEvaluator scores layouts with the Jensen top-hat wake model
type JensenEvaluator struct {
	grid      *grid.Index
	turbine   Turbine
	scenarios []Scenario
	hours     float64
}

// NewJensenEvaluator creates an evaluator. Scenario probabilities are
// normalised to sum to one.
func NewJensenEvaluator(g *grid.Index, t Turbine, scenarios []Scenario, hours float64) (*JensenEvaluator, error) {
	if g == nil {
		return nil, errors.New("grid is required")
	}
	if t.RotorRadius <= 0 {
		return nil, fmt.Errorf("rotor radius must be positive, got %v", t.RotorRadius)
	}
	if t.ThrustCoefficient < 0 || t.ThrustCoefficient > 1 {
		return nil, fmt.Errorf("thrust coefficient must be in [0,1], got %v", t.ThrustCoefficient)
	}
	if hours <= 0 {
		return nil, fmt.Errorf("hours must be positive, got %v", hours)
	}
	if len(scenarios) == 0 {
		return nil, errors.New("at least one wind scenario is required")
	}

	var total float64
	for _, s := range scenarios {
		if s.Speed < 0 || s.Probability < 0 {
			return nil, fmt.Errorf("invalid wind scenario %+v", s)
		}
		total += s.Probability
	}
	if total <= 0 {
		return nil, errors.New("wind scenario probabilities sum to zero")
	}
	norm := make([]Scenario, len(scenarios))
	for i, s := range scenarios {
		s.Probability /= total
		norm[i] = s
	}

	return &JensenEvaluator{grid: g, turbine: t, scenarios: norm, hours: hours}, nil
}

// Evaluate returns one record per occupied cell, ordered by cell id
func (e *JensenEvaluator) Evaluate(l *layout.Layout) ([]Record, error) {
	if l.Len() != e.grid.Len() {
		return nil, fmt.Errorf("layout covers %d cells, grid has %d", l.Len(), e.grid.Len())
	}
	occ := l.Occupied()
	if len(occ) == 0 {
		return nil, errors.New("layout has no turbines")
	}

	cells := make([]grid.Cell, len(occ))
	for i, idx := range occ {
		cells[i] = e.grid.At(idx)
	}

	energy := make([]float64, len(cells))
	ideal := make([]float64, len(cells))
	deficits := make([]float64, len(cells))

	for _, s := range e.scenarios {
		if s.Probability == 0 {
			continue
		}
		rad := s.Direction * math.Pi / 180
		// downwind unit vector
		dx, dy := -math.Sin(rad), -math.Cos(rad)

		for j := range cells {
			var sum float64
			for i := range cells {
				if i == j {
					continue
				}
				rx := cells[j].X - cells[i].X
				ry := cells[j].Y - cells[i].Y
				along := rx*dx + ry*dy
				if along <= 0 {
					continue
				}
				lateral := math.Abs(rx*dy - ry*dx)
				k := e.wakeDecay(cells[i])
				if lateral >= e.turbine.RotorRadius+k*along {
					continue
				}
				d := e.deficit(along, k)
				sum += d * d
			}
			deficits[j] = math.Min(math.Sqrt(sum), 1)
		}

		for j := range cells {
			v := s.Speed * (1 - deficits[j])
			energy[j] += e.energy(v) * s.Probability
			ideal[j] += e.energy(s.Speed) * s.Probability
		}
	}

	var total, totalIdeal float64
	for j := range cells {
		total += energy[j]
		totalIdeal += ideal[j]
	}
	efficiency := 100.0
	if totalIdeal > 0 {
		efficiency = total / totalIdeal * 100
	}

	rows := make([]Record, len(cells))
	for j, c := range cells {
		var loss float64
		if ideal[j] > 0 {
			loss = (1 - energy[j]/ideal[j]) * 100
		}
		rows[j] = Record{
			CellID:      c.ID,
			X:           c.X,
			Y:           c.Y,
			Energy:      total,
			Efficiency:  efficiency,
			WakeLoss:    loss,
			ParkFitness: total,
		}
	}
	return rows, nil
}

// wakeDecay derives k from the roughness of the upstream cell
func (e *JensenEvaluator) wakeDecay(c grid.Cell) float64 {
	if c.Roughness <= 0 || e.turbine.HubHeight <= c.Roughness {
		return defaultWakeDecay
	}
	return 0.5 / math.Log(e.turbine.HubHeight/c.Roughness)
}

func (e *JensenEvaluator) deficit(along, k float64) float64 {
	ct := e.turbine.ThrustCoefficient
	f := 1 + k*along/e.turbine.RotorRadius
	return (1 - math.Sqrt(1-ct)) / (f * f)
}

// energy returns kWh over the configured hours at speed v
func (e *JensenEvaluator) energy(v float64) float64 {
	area := math.Pi * e.turbine.RotorRadius * e.turbine.RotorRadius
	watts := 0.5 * e.turbine.AirDensity * area * e.turbine.PowerCoefficient * v * v * v
	return watts / 1000 * e.hours
}
