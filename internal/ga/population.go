package ga

import (
	"math/rand"
	"sort"

	"windga/internal/fitness"
	"windga/internal/layout"
)

// Individual is one candidate wind-farm layout with its evaluation
type Individual struct {
	Layout     *layout.Layout
	Records    []fitness.Record
	Fitness    float64 // park fitness of the layout
	Energy     float64
	Efficiency float64
	Evaluated  bool
}

// SetRecords attaches evaluation rows and lifts the layout-wide metrics
func (ind *Individual) SetRecords(rows []fitness.Record) {
	ind.Records = rows
	ind.Evaluated = true
	if len(rows) == 0 {
		ind.Fitness, ind.Energy, ind.Efficiency = 0, 0, 0
		return
	}
	ind.Fitness = rows[0].ParkFitness
	ind.Energy = rows[0].Energy
	ind.Efficiency = rows[0].Efficiency
}

// Clone creates a deep copy of an individual
func (ind *Individual) Clone() *Individual {
	rows := make([]fitness.Record, len(ind.Records))
	copy(rows, ind.Records)
	return &Individual{
		Layout:     ind.Layout.Clone(),
		Records:    rows,
		Fitness:    ind.Fitness,
		Energy:     ind.Energy,
		Efficiency: ind.Efficiency,
		Evaluated:  ind.Evaluated,
	}
}

// Population is the ordered set of individuals of one generation
type Population struct {
	Individuals []*Individual
}

// NewRandomPopulation creates size layouts with exactly turbines bits each
func NewRandomPopulation(size, nGrids, turbines int, rng *rand.Rand) *Population {
	p := &Population{Individuals: make([]*Individual, size)}
	for i := range p.Individuals {
		p.Individuals[i] = &Individual{Layout: layout.Random(nGrids, turbines, rng)}
	}
	return p
}

// Size returns the population size
func (p *Population) Size() int {
	return len(p.Individuals)
}

// SortByFitness ranks individuals by fitness, descending. Ties keep their order.
func (p *Population) SortByFitness() {
	sort.SliceStable(p.Individuals, func(i, j int) bool {
		return p.Individuals[i].Fitness > p.Individuals[j].Fitness
	})
}

// Best returns the individual with highest fitness
func (p *Population) Best() *Individual {
	return p.bestBy(func(ind *Individual) float64 { return ind.Fitness })
}

// BestByEnergy returns the individual with highest total energy
func (p *Population) BestByEnergy() *Individual {
	return p.bestBy(func(ind *Individual) float64 { return ind.Energy })
}

// BestByEfficiency returns the individual with highest park efficiency
func (p *Population) BestByEfficiency() *Individual {
	return p.bestBy(func(ind *Individual) float64 { return ind.Efficiency })
}

func (p *Population) bestBy(key func(*Individual) float64) *Individual {
	if len(p.Individuals) == 0 {
		return nil
	}
	best := p.Individuals[0]
	for _, ind := range p.Individuals[1:] {
		if key(ind) > key(best) {
			best = ind
		}
	}
	return best
}

// Fitnesses returns the fitness values in population order
func (p *Population) Fitnesses() []float64 {
	out := make([]float64, len(p.Individuals))
	for i, ind := range p.Individuals {
		out[i] = ind.Fitness
	}
	return out
}

// Table concatenates the evaluation rows of every individual
func (p *Population) Table() []fitness.Record {
	n := 0
	for _, ind := range p.Individuals {
		n += len(ind.Records)
	}
	out := make([]fitness.Record, 0, n)
	for _, ind := range p.Individuals {
		out = append(out, ind.Records...)
	}
	return out
}
