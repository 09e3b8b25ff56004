package main

import (
	"windga/internal/config"
	"windga/internal/fitness"
	"windga/internal/grid"
)

// buildModel creates the grid and the reference wake evaluator from config
func buildModel(cfg *config.Config) (*grid.Index, *fitness.JensenEvaluator, error) {
	g, err := grid.NewRectangular(cfg.Grid.Width, cfg.Grid.Height, cfg.Grid.CellSize, cfg.Grid.Roughness, cfg.Grid.Elevation)
	if err != nil {
		return nil, nil, err
	}

	scenarios := make([]fitness.Scenario, len(cfg.Wind.Scenarios))
	for i, s := range cfg.Wind.Scenarios {
		scenarios[i] = fitness.Scenario{Speed: s.Speed, Direction: s.Direction, Probability: s.Probability}
	}
	ev, err := fitness.NewJensenEvaluator(g, fitness.Turbine{
		RotorRadius:       cfg.Turbine.RotorRadius,
		HubHeight:         cfg.Turbine.HubHeight,
		ThrustCoefficient: cfg.Turbine.ThrustCoefficient,
		PowerCoefficient:  cfg.Turbine.PowerCoefficient,
		AirDensity:        cfg.Turbine.AirDensity,
	}, scenarios, cfg.Wind.Hours)
	if err != nil {
		return nil, nil, err
	}
	return g, ev, nil
}
