package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"windga/internal/engine"
)

// Collector exports generation reports as Prometheus metrics on a private
// registry, so several runs in one process do not clash.
type Collector struct {
	registry *prometheus.Registry

	generation        prometheus.Gauge
	bestFitness       prometheus.Gauge
	meanFitness       prometheus.Gauge
	archiveEnergy     prometheus.Gauge
	archiveEfficiency prometheus.Gauge
	mutationRate      prometheus.Gauge
	selectionFraction prometheus.Gauge
	offspring         prometheus.Counter
	repairedTurbines  *prometheus.CounterVec
}

// New creates a collector whose metrics carry the run id as a const label
func New(runID string) *Collector {
	labels := prometheus.Labels{"run_id": runID}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "windga",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}

	c := &Collector{
		registry:          prometheus.NewRegistry(),
		generation:        gauge("generation", "Last evaluated generation."),
		bestFitness:       gauge("best_fitness", "Best park fitness of the last generation."),
		meanFitness:       gauge("mean_fitness", "Mean park fitness of the last generation."),
		archiveEnergy:     gauge("archive_energy", "Best layout energy seen so far."),
		archiveEfficiency: gauge("archive_efficiency", "Best layout efficiency seen so far, percent."),
		mutationRate:      gauge("mutation_rate", "Mutation rate used for the last generation."),
		selectionFraction: gauge("selection_fraction", "Share of the ranking selected as parents."),
		offspring: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "windga",
			Name:        "offspring_total",
			Help:        "Children produced by crossover before the population cap.",
			ConstLabels: labels,
		}),
		repairedTurbines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "windga",
			Name:        "repaired_turbines_total",
			Help:        "Turbines moved by count repair.",
			ConstLabels: labels,
		}, []string{"op"}),
	}
	c.registry.MustRegister(
		c.generation, c.bestFitness, c.meanFitness,
		c.archiveEnergy, c.archiveEfficiency,
		c.mutationRate, c.selectionFraction,
		c.offspring, c.repairedTurbines,
	)
	return c
}

// ObserveGeneration updates every metric from one report
func (c *Collector) ObserveGeneration(r engine.GenerationReport) {
	c.generation.Set(float64(r.Generation))
	c.bestFitness.Set(r.BestFitness)
	c.meanFitness.Set(r.MeanFitness)
	c.archiveEnergy.Set(r.ArchiveEnergy)
	c.archiveEfficiency.Set(r.ArchiveEfficiency)
	c.mutationRate.Set(r.MutationRate)
	c.selectionFraction.Set(r.SelectionFraction)
	c.offspring.Add(float64(r.Offspring))
	c.repairedTurbines.WithLabelValues("removed").Add(float64(r.Repair.Removed))
	c.repairedTurbines.WithLabelValues("added").Add(float64(r.Repair.Added))
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's metrics in the exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
