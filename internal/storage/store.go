// Package storage persists spectrum runs as JSON metadata plus CSV data,
// one directory per run.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/tangent/internal/lyapunov"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string    `json:"id"`
	System     string    `json:"system"`
	Timestamp  time.Time `json:"timestamp"`
	Integrator string    `json:"integrator"`
	K          int       `json:"k"`
	Dt         float64   `json:"dt"`
	Total      float64   `json:"total"`
	Renorm     float64   `json:"renorm"`
	Transient  float64   `json:"transient"`
	Exponents  []float64 `json:"exponents"`
	Warnings   []string  `json:"warnings,omitempty"`
}

// Save writes metadata.json, spectrum.csv and convergence.csv for the run
// and returns the run ID.
func (s *Store) Save(system, integrator string, cfg lyapunov.Config, result *lyapunov.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", system, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		System:     system,
		Timestamp:  time.Now(),
		Integrator: integrator,
		K:          len(result.Exponents),
		Dt:         cfg.Dt,
		Total:      cfg.Total,
		Renorm:     cfg.Renorm,
		Transient:  cfg.Transient,
		Exponents:  result.Exponents,
		Warnings:   result.Warnings,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		metaFile.Close()
		return "", err
	}
	if err := metaFile.Close(); err != nil {
		return "", err
	}

	if err := writeSpectrumCSV(filepath.Join(runDir, "spectrum.csv"), result.Exponents); err != nil {
		return "", err
	}
	if err := writeConvergenceCSV(filepath.Join(runDir, "convergence.csv"), result.History); err != nil {
		return "", err
	}

	return runID, nil
}

func writeSpectrumCSV(path string, exponents []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"index", "exponent"}); err != nil {
		return err
	}
	for i, lam := range exponents {
		row := []string{strconv.Itoa(i), strconv.FormatFloat(lam, 'g', -1, 64)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeConvergenceCSV(path string, history [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	for _, row := range history {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// List returns metadata for every stored run, newest last in directory
// order.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

// Load reads the metadata of one run.
func (s *Store) Load(runID string) (RunMetadata, error) {
	var meta RunMetadata
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, err
	}
	return meta, nil
}
