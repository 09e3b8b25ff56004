package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure
type Config struct {
	Seed    int64         `yaml:"seed"`
	Grid    GridConfig    `yaml:"grid"`
	Turbine TurbineConfig `yaml:"turbine"`
	Wind    WindConfig    `yaml:"wind"`
	GA      GAConfig      `yaml:"ga"`
	Logging LogConfig     `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// GridConfig defines the rectangular placement area
type GridConfig struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	CellSize  float64 `yaml:"cell_size"`
	Roughness float64 `yaml:"roughness"` // z0 in metres
	Elevation float64 `yaml:"elevation"`
}

// TurbineConfig defines the rotor placed in every occupied cell
type TurbineConfig struct {
	RotorRadius       float64 `yaml:"rotor_radius"`
	HubHeight         float64 `yaml:"hub_height"`
	ThrustCoefficient float64 `yaml:"thrust_coefficient"`
	PowerCoefficient  float64 `yaml:"power_coefficient"`
	AirDensity        float64 `yaml:"air_density"`
}

// WindScenario is one wind speed/direction bin
type WindScenario struct {
	Speed       float64 `yaml:"speed"`
	Direction   float64 `yaml:"direction"` // degrees the wind blows from, 0 = north
	Probability float64 `yaml:"probability"`
}

// WindConfig defines the wind climate
type WindConfig struct {
	Hours     float64        `yaml:"hours"`
	Scenarios []WindScenario `yaml:"scenarios"`
}

// GAConfig defines genetic algorithm parameters
type GAConfig struct {
	Turbines          int     `yaml:"turbines"`
	Iterations        int     `yaml:"iterations"`
	Population        int     `yaml:"population"`
	PopulationCap     int     `yaml:"population_cap"`
	MutationRate      float64 `yaml:"mutation_rate"`
	VariableMutation  bool    `yaml:"variable_mutation"`
	MutationRateCap   float64 `yaml:"mutation_rate_cap"`
	Elitism           bool    `yaml:"elitism"`
	EliteCount        int     `yaml:"elite_count"`
	SelectionMode     string  `yaml:"selection_mode"` // FIX|VAR
	SelectionFraction float64 `yaml:"selection_fraction"`
	SelectionMin      float64 `yaml:"selection_min"`
	SelectionMax      float64 `yaml:"selection_max"`
	CrossoverMode     string  `yaml:"crossover_mode"` // EQU|RAN
	CrossoverRate     float64 `yaml:"crossover_rate"`
	PermutationCap    int     `yaml:"permutation_cap"`
	KeepParents       bool    `yaml:"keep_parents"`
	TrimForce         bool    `yaml:"trim_force"`
	RepairExponent    float64 `yaml:"repair_exponent"`
}

// LogConfig defines logging parameters
type LogConfig struct {
	Level    string `yaml:"level"` // debug|info|warn|error
	CSVPath  string `yaml:"csv_path"`
	JSONPath string `yaml:"json_path"`
	BestPath string `yaml:"best_path"`
	Quiet    bool   `yaml:"quiet"`
}

// MetricsConfig defines the optional Prometheus endpoint
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns a config with every default applied. Booleans that
// default to true are only set here, since YAML cannot tell false from unset.
func Default() *Config {
	cfg := &Config{}
	cfg.GA.Elitism = true
	cfg.GA.TrimForce = true
	applyDefaults(cfg)
	return cfg
}

// Load reads a YAML config file over the defaults and validates it
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	cfg.Wind.Scenarios = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Apply defaults
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Seed == 0 {
		cfg.Seed = 1337
	}
	if cfg.Grid.Width == 0 {
		cfg.Grid.Width = 2000
	}
	if cfg.Grid.Height == 0 {
		cfg.Grid.Height = 2000
	}
	if cfg.Grid.CellSize == 0 {
		cfg.Grid.CellSize = 200
	}
	if cfg.Grid.Roughness == 0 {
		cfg.Grid.Roughness = 0.3
	}
	if cfg.Turbine.RotorRadius == 0 {
		cfg.Turbine.RotorRadius = 30
	}
	if cfg.Turbine.HubHeight == 0 {
		cfg.Turbine.HubHeight = 80
	}
	if cfg.Turbine.ThrustCoefficient == 0 {
		cfg.Turbine.ThrustCoefficient = 0.88
	}
	if cfg.Turbine.PowerCoefficient == 0 {
		cfg.Turbine.PowerCoefficient = 0.4
	}
	if cfg.Turbine.AirDensity == 0 {
		cfg.Turbine.AirDensity = 1.225
	}
	if cfg.Wind.Hours == 0 {
		cfg.Wind.Hours = 8760
	}
	if len(cfg.Wind.Scenarios) == 0 {
		cfg.Wind.Scenarios = []WindScenario{{Speed: 12, Direction: 0, Probability: 1}}
	}
	if cfg.GA.Turbines == 0 {
		cfg.GA.Turbines = 10
	}
	if cfg.GA.Iterations == 0 {
		cfg.GA.Iterations = 20
	}
	if cfg.GA.Population == 0 {
		cfg.GA.Population = 50
	}
	if cfg.GA.PermutationCap == 0 {
		cfg.GA.PermutationCap = 300
	}
	if cfg.GA.PopulationCap == 0 {
		cfg.GA.PopulationCap = cfg.GA.PermutationCap
	}
	if cfg.GA.MutationRate == 0 {
		cfg.GA.MutationRate = 0.008
	}
	if cfg.GA.MutationRateCap == 0 {
		cfg.GA.MutationRateCap = 0.1
	}
	if cfg.GA.EliteCount == 0 {
		cfg.GA.EliteCount = 6
	}
	if cfg.GA.SelectionMode == "" {
		cfg.GA.SelectionMode = "FIX"
	}
	if cfg.GA.SelectionFraction == 0 {
		cfg.GA.SelectionFraction = 0.5
	}
	if cfg.GA.SelectionMin == 0 {
		cfg.GA.SelectionMin = 0.3
	}
	if cfg.GA.SelectionMax == 0 {
		cfg.GA.SelectionMax = 0.8
	}
	if cfg.GA.CrossoverMode == "" {
		cfg.GA.CrossoverMode = "EQU"
	}
	if cfg.GA.CrossoverRate == 0 {
		cfg.GA.CrossoverRate = 1.1
	}
	if cfg.GA.RepairExponent == 0 {
		cfg.GA.RepairExponent = 0.5
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.CSVPath == "" {
		cfg.Logging.CSVPath = "runs/run.csv"
	}
	if cfg.Logging.JSONPath == "" {
		cfg.Logging.JSONPath = "runs/run.jsonl"
	}
	if cfg.Logging.BestPath == "" {
		cfg.Logging.BestPath = "artifacts/best.json"
	}
}

// Validate checks ranges that do not depend on the grid. Mode names and the
// turbine count against the grid are checked when the engine is built.
func (c *Config) Validate() error {
	var errs []error
	if c.GA.Turbines < 1 {
		errs = append(errs, fmt.Errorf("ga.turbines must be at least 1, got %d", c.GA.Turbines))
	}
	if c.GA.Iterations < 1 {
		errs = append(errs, fmt.Errorf("ga.iterations must be at least 1, got %d", c.GA.Iterations))
	}
	if c.GA.Population < 2 {
		errs = append(errs, fmt.Errorf("ga.population must be at least 2, got %d", c.GA.Population))
	}
	if c.GA.PopulationCap < 2 {
		errs = append(errs, fmt.Errorf("ga.population_cap must be at least 2, got %d", c.GA.PopulationCap))
	}
	if c.GA.PermutationCap < 1 {
		errs = append(errs, fmt.Errorf("ga.permutation_cap must be at least 1, got %d", c.GA.PermutationCap))
	}
	if c.GA.MutationRate < 0 || c.GA.MutationRate > 1 {
		errs = append(errs, fmt.Errorf("ga.mutation_rate must be in [0,1], got %v", c.GA.MutationRate))
	}
	if c.GA.MutationRateCap < 0 || c.GA.MutationRateCap > 1 {
		errs = append(errs, fmt.Errorf("ga.mutation_rate_cap must be in [0,1], got %v", c.GA.MutationRateCap))
	}
	if c.GA.Elitism && (c.GA.EliteCount < 0 || c.GA.EliteCount >= c.GA.PopulationCap) {
		errs = append(errs, fmt.Errorf("ga.elite_count must be in [0,population_cap), got %d", c.GA.EliteCount))
	}
	if c.GA.SelectionFraction <= 0 || c.GA.SelectionFraction > 1 {
		errs = append(errs, fmt.Errorf("ga.selection_fraction must be in (0,1], got %v", c.GA.SelectionFraction))
	}
	if c.GA.SelectionMin <= 0 || c.GA.SelectionMax > 1 || c.GA.SelectionMin > c.GA.SelectionMax {
		errs = append(errs, fmt.Errorf("ga.selection_min/max must satisfy 0 < min <= max <= 1, got %v/%v",
			c.GA.SelectionMin, c.GA.SelectionMax))
	}
	if c.GA.CrossoverRate <= 1 || c.GA.CrossoverRate > 30 {
		errs = append(errs, fmt.Errorf("ga.crossover_rate must be in (1,30], got %v", c.GA.CrossoverRate))
	}
	if c.GA.RepairExponent < 0 {
		errs = append(errs, fmt.Errorf("ga.repair_exponent must not be negative, got %v", c.GA.RepairExponent))
	}
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 || c.Grid.CellSize <= 0 {
		errs = append(errs, errors.New("grid width, height and cell_size must be positive"))
	}
	if c.Turbine.RotorRadius <= 0 {
		errs = append(errs, fmt.Errorf("turbine.rotor_radius must be positive, got %v", c.Turbine.RotorRadius))
	}
	if c.Turbine.ThrustCoefficient < 0 || c.Turbine.ThrustCoefficient > 1 {
		errs = append(errs, fmt.Errorf("turbine.thrust_coefficient must be in [0,1], got %v", c.Turbine.ThrustCoefficient))
	}
	var prob float64
	for i, s := range c.Wind.Scenarios {
		if s.Speed < 0 || s.Probability < 0 {
			errs = append(errs, fmt.Errorf("wind.scenarios[%d]: speed and probability must not be negative", i))
		}
		prob += s.Probability
	}
	if prob <= 0 {
		errs = append(errs, errors.New("wind.scenarios probabilities must sum to a positive value"))
	}
	return errors.Join(errs...)
}
