package engine

import (
	"windga/internal/ga"
)

// Archive keeps the best layouts seen over the whole run. Entries only
// ever get replaced by strictly better candidates.
type Archive struct {
	BestEnergy        *ga.Individual
	BestEnergyGen     int
	BestEfficiency    *ga.Individual
	BestEfficiencyGen int
}

// Update offers a candidate from generation gen and reports which slots improved
func (a *Archive) Update(ind *ga.Individual, gen int) (energy, efficiency bool) {
	if ind == nil || !ind.Evaluated {
		return false, false
	}
	if a.BestEnergy == nil || ind.Energy > a.BestEnergy.Energy {
		a.BestEnergy = ind.Clone()
		a.BestEnergyGen = gen
		energy = true
	}
	if a.BestEfficiency == nil || ind.Efficiency > a.BestEfficiency.Efficiency {
		a.BestEfficiency = ind.Clone()
		a.BestEfficiencyGen = gen
		efficiency = true
	}
	return energy, efficiency
}
