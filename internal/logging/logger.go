package logging

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"windga/internal/engine"
)

// Logger writes per-generation output: a CSV row, a JSON line and a
// console summary. Empty paths and a nil writer disable that sink.
type Logger struct {
	csvPath     string
	jsonPath    string
	out         io.Writer
	csvFile     *os.File
	csvWriter   *csv.Writer
	jsonFile    *os.File
	initialized bool
	err         error
}

var csvHeader = []string{
	"generation", "best_fitness", "mean_fitness", "std_fitness",
	"best_energy", "best_efficiency", "archive_energy", "archive_efficiency",
	"mutation_rate", "duplicate_best", "flips", "selection_fraction", "parents", "offspring",
	"trimmed", "filled", "removed", "added",
}

// NewLogger creates a new logger
func NewLogger(csvPath, jsonPath string, out io.Writer) (*Logger, error) {
	l := &Logger{
		csvPath:  csvPath,
		jsonPath: jsonPath,
		out:      out,
	}

	// Ensure directories exist
	for _, p := range []string{csvPath, jsonPath} {
		if p == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Init creates the log files and writes the CSV header
func (l *Logger) Init() error {
	var err error

	if l.csvPath != "" {
		l.csvFile, err = os.Create(l.csvPath)
		if err != nil {
			return err
		}
		l.csvWriter = csv.NewWriter(l.csvFile)
		if err := l.csvWriter.Write(csvHeader); err != nil {
			return err
		}
		l.csvWriter.Flush()
	}

	if l.jsonPath != "" {
		l.jsonFile, err = os.OpenFile(l.jsonPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
	}

	l.initialized = true
	return nil
}

// Close flushes and closes all log files. It returns the first write
// error seen since Init.
func (l *Logger) Close() error {
	errs := []error{l.err}
	if l.csvWriter != nil {
		l.csvWriter.Flush()
		errs = append(errs, l.csvWriter.Error())
	}
	if l.csvFile != nil {
		errs = append(errs, l.csvFile.Close())
	}
	if l.jsonFile != nil {
		errs = append(errs, l.jsonFile.Close())
	}
	l.initialized = false
	return errors.Join(errs...)
}

// ObserveGeneration logs one generation report
func (l *Logger) ObserveGeneration(r engine.GenerationReport) {
	if !l.initialized {
		return
	}

	// Write CSV row
	if l.csvWriter != nil {
		row := []string{
			strconv.Itoa(r.Generation),
			fmt.Sprintf("%.4f", r.BestFitness),
			fmt.Sprintf("%.4f", r.MeanFitness),
			fmt.Sprintf("%.4f", r.StdFitness),
			fmt.Sprintf("%.4f", r.BestEnergy),
			fmt.Sprintf("%.4f", r.BestEfficiency),
			fmt.Sprintf("%.4f", r.ArchiveEnergy),
			fmt.Sprintf("%.4f", r.ArchiveEfficiency),
			fmt.Sprintf("%.6f", r.MutationRate),
			strconv.Itoa(r.DuplicateBest),
			strconv.Itoa(r.Flips),
			fmt.Sprintf("%.4f", r.SelectionFraction),
			strconv.Itoa(r.Parents),
			strconv.Itoa(r.Offspring),
			strconv.Itoa(r.Repair.Trimmed),
			strconv.Itoa(r.Repair.Filled),
			strconv.Itoa(r.Repair.Removed),
			strconv.Itoa(r.Repair.Added),
		}
		l.keep(l.csvWriter.Write(row))
		l.csvWriter.Flush()
		l.keep(l.csvWriter.Error())
	}

	// Write JSON line
	if l.jsonFile != nil {
		line, err := json.Marshal(r)
		l.keep(err)
		if err == nil {
			_, err = l.jsonFile.Write(append(line, '\n'))
			l.keep(err)
		}
	}

	// Print to console
	if l.out != nil {
		fmt.Fprintf(l.out, "Gen %4d | Best: %12.1f | Mean: %12.1f | Energy: %12.1f | Effic: %6.2f%% | Mut: %.4f | Off: %d\n",
			r.Generation, r.BestFitness, r.MeanFitness, r.ArchiveEnergy, r.ArchiveEfficiency,
			r.MutationRate, r.Offspring)
	}
}

func (l *Logger) keep(err error) {
	if err != nil && l.err == nil {
		l.err = err
	}
}
