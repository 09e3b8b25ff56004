package logging

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"windga/internal/engine"
	"windga/internal/fitness"
	"windga/internal/ga"
)

// BestLayout is one archived layout in the run artifact
type BestLayout struct {
	Generation int              `json:"generation"`
	Fitness    float64          `json:"fitness"`
	Energy     float64          `json:"energy"`
	Efficiency float64          `json:"efficiency"`
	CellIDs    []int            `json:"cell_ids"`
	Occupancy  string           `json:"occupancy"`
	GridLength int              `json:"grid_length"`
	Records    []fitness.Record `json:"records"`
}

// BestArtifact is the JSON handed to the orchestrator at the end of a run
type BestArtifact struct {
	RunID       string      `json:"run_id"`
	Seed        int64       `json:"seed"`
	Generations int         `json:"generations"`
	Energy      *BestLayout `json:"best_energy,omitempty"`
	Efficiency  *BestLayout `json:"best_efficiency,omitempty"`
}

// NewBestArtifact builds the artifact from a finished run
func NewBestArtifact(res *engine.Result) (*BestArtifact, error) {
	if res == nil {
		return nil, errors.New("no run result")
	}
	return &BestArtifact{
		RunID:       res.RunID,
		Seed:        res.Seed,
		Generations: len(res.Generations),
		Energy:      bestLayout(res.Archive.BestEnergy, res.Archive.BestEnergyGen),
		Efficiency:  bestLayout(res.Archive.BestEfficiency, res.Archive.BestEfficiencyGen),
	}, nil
}

func bestLayout(ind *ga.Individual, gen int) *BestLayout {
	if ind == nil {
		return nil
	}
	return &BestLayout{
		Generation: gen,
		Fitness:    ind.Fitness,
		Energy:     ind.Energy,
		Efficiency: ind.Efficiency,
		CellIDs:    ind.Layout.CellIDs(),
		Records:    fitness.Dedup(ind.Records),
		Occupancy:  ind.Layout.String(),
		GridLength: ind.Layout.Len(),
	}
}

// SaveBest writes the archived best layouts of a run to path
func SaveBest(path string, res *engine.Result) error {
	art, err := NewBestArtifact(res)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(art, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, jsonData, 0644)
}

// LoadBest reads an artifact written by SaveBest
func LoadBest(path string) (*BestArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var art BestArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, err
	}

	return &art, nil
}
