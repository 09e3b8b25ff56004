package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"windga/internal/config"
	"windga/internal/grid"
	"windga/internal/logging"
)

var showCmd = &cobra.Command{
	Use:   "show [best.json]",
	Short: "Render the archived best layouts of a run",
	Long:  `Draw the best-energy and best-efficiency layouts saved by "run" on the configured grid, north up.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		path := cfg.Logging.BestPath
		if len(args) == 1 {
			path = args[0]
		}

		art, err := logging.LoadBest(path)
		if err != nil {
			return fmt.Errorf("load best layouts: %w", err)
		}
		g, _, err := buildModel(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Run %s (seed %d, %d generations)\n", art.RunID, art.Seed, art.Generations)
		for _, entry := range []struct {
			title string
			best  *logging.BestLayout
		}{
			{"Best energy", art.Energy},
			{"Best efficiency", art.Efficiency},
		} {
			if entry.best == nil {
				continue
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "%s: gen %d, energy %.1f, efficiency %.2f%%\n",
				entry.title, entry.best.Generation, entry.best.Energy, entry.best.Efficiency)
			if err := renderLayout(out, g, entry.best.Occupancy); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

// renderLayout draws the occupancy string on the grid, north row first
func renderLayout(w io.Writer, g *grid.Index, occupancy string) error {
	if len(occupancy) != g.Len() {
		return fmt.Errorf("layout covers %d cells, grid has %d", len(occupancy), g.Len())
	}
	cols, rows := g.Dims()

	var sb strings.Builder
	sb.WriteString("┌" + strings.Repeat("──", cols) + "┐\n")
	for r := rows - 1; r >= 0; r-- {
		sb.WriteString("│")
		for c := 0; c < cols; c++ {
			if occupancy[r*cols+c] == '1' {
				sb.WriteString(" T")
			} else {
				sb.WriteString(" ·")
			}
		}
		sb.WriteString("│\n")
	}
	sb.WriteString("└" + strings.Repeat("──", cols) + "┘\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
