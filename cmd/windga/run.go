package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"windga/internal/config"
	"windga/internal/engine"
	"windga/internal/logging"
	"windga/internal/metrics"
)

var (
	runIterations  int
	runSeed        int64
	runMetricsAddr string
	runQuiet       bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Optimize a turbine layout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// Command line overrides
		flags := cmd.Flags()
		if flags.Changed("iterations") {
			cfg.GA.Iterations = runIterations
		}
		if flags.Changed("seed") {
			cfg.Seed = runSeed
		}
		if flags.Changed("metrics-addr") {
			cfg.Metrics.Addr = runMetricsAddr
		}
		if flags.Changed("quiet") {
			cfg.Logging.Quiet = runQuiet
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		return runOptimizer(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVarP(&runIterations, "iterations", "n", 0, "number of generations to run")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "random seed")
	runCmd.Flags().StringVar(&runMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "suppress the per-generation console line")
}

func runOptimizer(cfg *config.Config, stdout, stderr io.Writer) error {
	log, err := logging.NewSlog(stderr, cfg.Logging.Level)
	if err != nil {
		return err
	}

	g, ev, err := buildModel(cfg)
	if err != nil {
		return err
	}
	cols, rows := g.Dims()

	runID := uuid.NewString()
	fmt.Fprintf(stdout, "Wind farm layout GA - run %s\n", runID)
	fmt.Fprintf(stdout, "Config: %s\n", configPath)
	fmt.Fprintf(stdout, "Grid: %dx%d cells of %.0fm, Turbines: %d\n", cols, rows, g.CellSize(), cfg.GA.Turbines)
	fmt.Fprintf(stdout, "Population: %d (cap %d), Selection: %s, Crossover: %s u=%.2f\n",
		cfg.GA.Population, cfg.GA.PopulationCap, cfg.GA.SelectionMode, cfg.GA.CrossoverMode, cfg.GA.CrossoverRate)
	fmt.Fprintln(stdout, "---")

	// Create logger
	var console io.Writer = stdout
	if cfg.Logging.Quiet {
		console = nil
	}
	logger, err := logging.NewLogger(cfg.Logging.CSVPath, cfg.Logging.JSONPath, console)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	if err := logger.Init(); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		if err := logger.Close(); err != nil {
			log.Warn("closing run logs", "err", err)
		}
	}()

	opts := []engine.Option{
		engine.WithRunID(runID),
		engine.WithLogger(log),
		engine.WithObserver(logger),
	}

	if cfg.Metrics.Addr != "" {
		collector := metrics.New(runID)
		opts = append(opts, engine.WithObserver(collector))

		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server", "addr", cfg.Metrics.Addr, "err", err)
			}
		}()
		defer shutdownServer(srv, 2*time.Second, log)
		log.Info("serving metrics", "addr", cfg.Metrics.Addr)
	}

	eng, err := engine.New(cfg, g, ev, opts...)
	if err != nil {
		return err
	}

	res, err := eng.Run()
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, "---")
	fmt.Fprintf(stdout, "Optimization complete! %d generations in %v\n", len(res.Generations), res.Elapsed.Round(time.Millisecond))
	if b := res.Archive.BestEnergy; b != nil {
		fmt.Fprintf(stdout, "Best energy:     %.1f (gen %d, efficiency %.2f%%) cells %v\n",
			b.Energy, res.Archive.BestEnergyGen, b.Efficiency, b.Layout.CellIDs())
	}
	if b := res.Archive.BestEfficiency; b != nil {
		fmt.Fprintf(stdout, "Best efficiency: %.2f%% (gen %d, energy %.1f) cells %v\n",
			b.Efficiency, res.Archive.BestEfficiencyGen, b.Energy, b.Layout.CellIDs())
	}

	if cfg.Logging.BestPath != "" {
		if err := logging.SaveBest(cfg.Logging.BestPath, res); err != nil {
			fmt.Fprintf(stderr, "Warning: failed to save best layouts: %v\n", err)
		} else {
			fmt.Fprintf(stdout, "Saved best layouts to %s\n", cfg.Logging.BestPath)
		}
	}
	return nil
}

// shutdownServer stops srv, waiting at most timeout for open requests
func shutdownServer(srv *http.Server, timeout time.Duration, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("stopping metrics server", "addr", srv.Addr, "err", err)
	}
}
