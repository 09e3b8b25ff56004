package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "windga",
	Short: "Genetic optimizer for wind farm turbine layouts",
	Long: `windga places a fixed number of turbines on a grid of candidate cells and
evolves layouts with segment crossover, bit-flip mutation and wake-weighted
turbine count repair.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/default.yaml", "path to config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
