package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"windga/internal/config"
	"windga/internal/fitness"
	"windga/internal/ga"
	"windga/internal/grid"
	"windga/internal/layout"
)

// Observer receives one report per evaluated generation
type Observer interface {
	ObserveGeneration(r GenerationReport)
}

// GenerationReport summarizes one evaluated generation and the operators
// that produced it. Operator fields are zero for the first generation.
type GenerationReport struct {
	RunID             string  `json:"run_id"`
	Generation        int     `json:"generation"`
	PopulationSize    int     `json:"population_size"`
	BestFitness       float64 `json:"best_fitness"`
	MeanFitness       float64 `json:"mean_fitness"`
	StdFitness        float64 `json:"std_fitness"`
	BestEnergy        float64 `json:"best_energy"`
	BestEfficiency    float64 `json:"best_efficiency"`
	ArchiveEnergy     float64 `json:"archive_energy"`
	ArchiveEfficiency float64 `json:"archive_efficiency"`

	MutationRate      float64        `json:"mutation_rate"`
	DuplicateBest     int            `json:"duplicate_best"`
	Flips             int            `json:"flips"`
	SelectionFraction float64        `json:"selection_fraction"`
	Parents           int            `json:"parents"`
	Offspring         int            `json:"offspring"`
	Repair            ga.RepairStats `json:"repair"`

	BestEnergyRecords     []fitness.Record `json:"best_energy_records,omitempty"`
	BestEfficiencyRecords []fitness.Record `json:"best_efficiency_records,omitempty"`
	Elapsed               time.Duration    `json:"elapsed_ns"`
}

// Result is the outcome of a full run
type Result struct {
	RunID       string
	Seed        int64
	Generations []GenerationReport
	Archive     Archive
	Final       *ga.Population
	Elapsed     time.Duration
}

// Option customizes an Engine
type Option func(*Engine)

// WithLogger sets the diagnostic logger
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithObserver adds a generation observer
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}

// WithRunID sets the run identifier. Without it New generates a UUID.
func WithRunID(id string) Option {
	return func(e *Engine) {
		if id != "" {
			e.runID = id
		}
	}
}

// Engine drives the generation loop: evaluate, rank, select, cross over,
// mutate and repair. All randomness comes from one seeded source.
type Engine struct {
	cfg       *config.Config
	grid      *grid.Index
	eval      fitness.Evaluator
	rng       *rand.Rand
	log       *slog.Logger
	observers []Observer
	runID     string

	selection ga.SelectionParams
	crossover ga.CrossoverParams
	repair    ga.RepairParams
}

// step carries what the operators did while producing a generation
type step struct {
	mutationRate float64
	duplicates   int
	flips        int
	fraction     float64
	parents      int
	offspring    int
	repair       ga.RepairStats
}

// New validates the configuration against the grid and builds an engine
func New(cfg *config.Config, g *grid.Index, eval fitness.Evaluator, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if g == nil || g.Len() == 0 {
		return nil, errors.New("grid is empty")
	}
	if eval == nil {
		return nil, errors.New("evaluator is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	selMode, err := ga.ParseSelectionMode(cfg.GA.SelectionMode)
	if err != nil {
		return nil, err
	}
	xMode, err := ga.ParseCrossoverMode(cfg.GA.CrossoverMode)
	if err != nil {
		return nil, err
	}
	if cfg.GA.Turbines > g.Len() {
		return nil, fmt.Errorf("%d turbines do not fit a grid of %d cells", cfg.GA.Turbines, g.Len())
	}
	if s := ga.Segments(cfg.GA.CrossoverRate); s > g.Len() {
		return nil, fmt.Errorf("crossover rate %v needs %d segments, grid has %d cells", cfg.GA.CrossoverRate, s, g.Len())
	}

	e := &Engine{
		cfg:  cfg,
		grid: g,
		eval: eval,
		rng:  rand.New(rand.NewSource(cfg.Seed)),
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		selection: ga.SelectionParams{
			Mode:        selMode,
			Fraction:    cfg.GA.SelectionFraction,
			MinFraction: cfg.GA.SelectionMin,
			MaxFraction: cfg.GA.SelectionMax,
			Elitism:     cfg.GA.Elitism,
			EliteCount:  cfg.GA.EliteCount,
		},
		crossover: ga.CrossoverParams{
			Mode:        xMode,
			Rate:        cfg.GA.CrossoverRate,
			Cap:         cfg.GA.PermutationCap,
			KeepParents: cfg.GA.KeepParents,
		},
		repair: ga.RepairParams{
			Turbines: cfg.GA.Turbines,
			Force:    cfg.GA.TrimForce,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.runID == "" {
		e.runID = uuid.NewString()
	}
	return e, nil
}

// RunID returns the identifier attached to every report
func (e *Engine) RunID() string {
	return e.runID
}

// Run executes the configured number of generations. The last generation
// is evaluated and reported but not bred.
func (e *Engine) Run() (*Result, error) {
	start := time.Now()
	res := &Result{RunID: e.runID, Seed: e.cfg.Seed}

	e.log.Info("run started",
		"run_id", e.runID,
		"seed", e.cfg.Seed,
		"cells", e.grid.Len(),
		"turbines", e.cfg.GA.Turbines,
		"population", e.cfg.GA.Population,
		"iterations", e.cfg.GA.Iterations,
		"selection", e.selection.Mode,
		"crossover", e.crossover.Mode,
	)

	pop := ga.NewRandomPopulation(e.cfg.GA.Population, e.grid.Len(), e.cfg.GA.Turbines, e.rng)
	var st step

	for gen := 1; gen <= e.cfg.GA.Iterations; gen++ {
		genStart := time.Now()

		// 1. Evaluate everything that is new this generation
		if err := e.evaluate(pop, gen); err != nil {
			return nil, err
		}

		// 2. Rank and update the run archive
		pop.SortByFitness()
		energyUp, _ := res.Archive.Update(pop.BestByEnergy(), gen)
		_, efficUp := res.Archive.Update(pop.BestByEfficiency(), gen)

		// 3. Report
		report := e.report(gen, pop, &res.Archive, st)
		report.Elapsed = time.Since(genStart)
		res.Generations = append(res.Generations, report)
		for _, o := range e.observers {
			o.ObserveGeneration(report)
		}
		e.log.Debug("generation evaluated",
			"gen", gen,
			"best", report.BestFitness,
			"mean", report.MeanFitness,
			"archive_energy", report.ArchiveEnergy,
			"energy_improved", energyUp,
			"efficiency_improved", efficUp,
		)

		if gen == e.cfg.GA.Iterations {
			break
		}

		// 4. Breed the next generation
		next, s, err := e.nextGeneration(pop)
		if err != nil {
			return nil, fmt.Errorf("generation %d: %w", gen, err)
		}
		pop, st = next, s
	}

	res.Final = pop
	res.Elapsed = time.Since(start)
	e.log.Info("run finished",
		"run_id", e.runID,
		"generations", len(res.Generations),
		"best_energy", archiveValue(res.Archive.BestEnergy, func(i *ga.Individual) float64 { return i.Energy }),
		"elapsed", res.Elapsed,
	)
	return res, nil
}

func (e *Engine) evaluate(pop *ga.Population, gen int) error {
	for i, ind := range pop.Individuals {
		if ind.Evaluated {
			continue
		}
		rows, err := e.eval.Evaluate(ind.Layout)
		if err != nil {
			return fmt.Errorf("generation %d: evaluate individual %d: %w", gen, i, err)
		}
		ind.SetRecords(rows)
	}
	return nil
}

func (e *Engine) nextGeneration(pop *ga.Population) (*ga.Population, step, error) {
	var st step

	// Selection ranks the population in place and clones the elites
	sel, err := ga.Select(pop, e.selection, e.rng)
	if err != nil {
		return nil, st, fmt.Errorf("select: %w", err)
	}
	st.fraction = sel.Fraction
	st.parents = sel.Parents

	// Crossover
	var pool []*layout.Layout
	for _, pair := range sel.Pairs {
		off, err := ga.Crossover(pair.A.Layout, pair.B.Layout, e.crossover, e.rng)
		if err != nil {
			return nil, st, fmt.Errorf("crossover: %w", err)
		}
		pool = append(pool, off.Columns...)
	}
	st.offspring = len(pool)
	pool = ga.Subsample(pool, e.cfg.GA.PopulationCap-len(sel.Elites), e.rng)

	// Mutation
	st.mutationRate = e.cfg.GA.MutationRate
	if e.cfg.GA.VariableMutation {
		st.mutationRate, st.duplicates = ga.AdaptiveMutationRate(pop.Fitnesses(), e.cfg.GA.MutationRate, e.cfg.GA.MutationRateCap)
	}
	st.flips = ga.Mutate(pool, st.mutationRate, e.rng)

	// Repair against the whole current generation's cell table
	var weights *ga.RepairWeights
	if e.repair.Force {
		weights = ga.NewRepairWeights(e.grid.Len(), fitness.Aggregate(pop.Table()), e.cfg.GA.RepairExponent)
	}
	st.repair, err = ga.Repair(pool, weights, e.repair, e.rng)
	if err != nil {
		return nil, st, fmt.Errorf("repair: %w", err)
	}

	next := &ga.Population{Individuals: make([]*ga.Individual, 0, len(sel.Elites)+len(pool))}
	next.Individuals = append(next.Individuals, sel.Elites...)
	for _, col := range pool {
		next.Individuals = append(next.Individuals, &ga.Individual{Layout: col})
	}
	return next, st, nil
}

func (e *Engine) report(gen int, pop *ga.Population, a *Archive, st step) GenerationReport {
	sum := fitness.Summarize(pop.Fitnesses())
	r := GenerationReport{
		RunID:             e.runID,
		Generation:        gen,
		PopulationSize:    pop.Size(),
		BestFitness:       sum.Best,
		MeanFitness:       sum.Mean,
		StdFitness:        sum.Std,
		MutationRate:      st.mutationRate,
		DuplicateBest:     st.duplicates,
		Flips:             st.flips,
		SelectionFraction: st.fraction,
		Parents:           st.parents,
		Offspring:         st.offspring,
		Repair:            st.repair,
	}
	if b := pop.BestByEnergy(); b != nil {
		r.BestEnergy = b.Energy
		r.BestEnergyRecords = copyRecords(b.Records)
	}
	if b := pop.BestByEfficiency(); b != nil {
		r.BestEfficiency = b.Efficiency
		r.BestEfficiencyRecords = copyRecords(b.Records)
	}
	r.ArchiveEnergy = archiveValue(a.BestEnergy, func(i *ga.Individual) float64 { return i.Energy })
	r.ArchiveEfficiency = archiveValue(a.BestEfficiency, func(i *ga.Individual) float64 { return i.Efficiency })
	return r
}

func archiveValue(ind *ga.Individual, key func(*ga.Individual) float64) float64 {
	if ind == nil {
		return 0
	}
	return key(ind)
}

func copyRecords(rows []fitness.Record) []fitness.Record {
	out := make([]fitness.Record, len(rows))
	copy(out, rows)
	return out
}
