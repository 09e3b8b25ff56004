package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"windga/internal/config"
	"windga/internal/engine"
	"windga/internal/ga"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a config file and print the resolved settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		g, ev, err := buildModel(cfg)
		if err != nil {
			return err
		}
		// engine.New performs the checks that need the grid
		if _, err := engine.New(cfg, g, ev); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		cols, rows := g.Dims()
		s := ga.Segments(cfg.GA.CrossoverRate)
		fmt.Fprintf(out, "config:      %s\n", configPath)
		fmt.Fprintf(out, "grid:        %d cells (%dx%d, %.0fm)\n", g.Len(), cols, rows, g.CellSize())
		fmt.Fprintf(out, "turbines:    %d\n", cfg.GA.Turbines)
		fmt.Fprintf(out, "population:  %d, cap %d, elites %d (elitism %t)\n",
			cfg.GA.Population, cfg.GA.PopulationCap, cfg.GA.EliteCount, cfg.GA.Elitism)
		fmt.Fprintf(out, "selection:   %s\n", cfg.GA.SelectionMode)
		fmt.Fprintf(out, "crossover:   %s, %d segments, %d combinations per pair, cap %d\n",
			cfg.GA.CrossoverMode, s, ga.Combinations(s, cfg.GA.KeepParents), cfg.GA.PermutationCap)
		fmt.Fprintf(out, "mutation:    %g (variable %t, cap %g)\n",
			cfg.GA.MutationRate, cfg.GA.VariableMutation, cfg.GA.MutationRateCap)
		fmt.Fprintf(out, "repair:      weighted %t, k=%g\n", cfg.GA.TrimForce, cfg.GA.RepairExponent)
		fmt.Fprintf(out, "wind:        %d scenarios over %.0f hours\n", len(cfg.Wind.Scenarios), cfg.Wind.Hours)
		fmt.Fprintln(out, "ok")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
