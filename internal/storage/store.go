// Package storage persists run results on disk and forwards sample series
// to GreptimeDB.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/vehiclelab/internal/metrics"
	"github.com/san-kum/vehiclelab/internal/sim"
)

const (
	metadataFile = "metadata.json"
	resultFile   = "result.json"
	exportFile   = "export.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID           string              `json:"id"`
	ScenarioID   string              `json:"scenario_id"`
	ScenarioName string              `json:"scenario_name"`
	Timestamp    time.Time           `json:"timestamp"`
	State        string              `json:"state"`
	ElapsedTime  float64             `json:"elapsed_time"`
	Bodies       []string            `json:"bodies"`
	Samples      int                 `json:"samples"`
	Metrics      metrics.Performance `json:"metrics"`
}

// Save writes res as a new run directory and returns its id.
func (s *Store) Save(res *sim.Result) (string, error) {
	if res == nil || res.Scenario == nil {
		return "", fmt.Errorf("storage: result without scenario")
	}

	ts := s.now()
	runID := fmt.Sprintf("%s_%d_%s", res.Scenario.ID, ts.Unix(), uuid.New().String()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		ScenarioID:   res.Scenario.ID,
		ScenarioName: res.Scenario.Name,
		Timestamp:    ts,
		State:        res.State.String(),
		ElapsedTime:  res.ElapsedTime,
		Bodies:       res.Series.BodyIDs(),
		Samples:      res.Series.Len(),
		Metrics:      res.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFile(filepath.Join(runDir, resultFile), res, sim.FormatJSON); err != nil {
		return "", err
	}
	if err := writeFile(filepath.Join(runDir, exportFile), res, sim.FormatCSV); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFile(path string, res *sim.Result, format sim.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := res.Write(f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns every readable run, newest first. Directories without valid
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, notFound(runID, err)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadResult(runID string) (*sim.Result, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, resultFile))
	if err != nil {
		return nil, notFound(runID, err)
	}
	defer f.Close()

	res, err := sim.ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return res, nil
}

// LoadExport parses the CSV export of a run.
func (s *Store) LoadExport(runID string) (*sim.CSVExport, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, exportFile))
	if err != nil {
		return nil, notFound(runID, err)
	}
	defer f.Close()
	return sim.ReadCSV(f)
}

// ExportPath is the location of a run's file in format f.
func (s *Store) ExportPath(runID string, f sim.Format) string {
	if f == sim.FormatCSV {
		return filepath.Join(s.baseDir, runID, exportFile)
	}
	return filepath.Join(s.baseDir, runID, resultFile)
}

func (s *Store) Delete(runID string) error {
	dir := filepath.Join(s.baseDir, runID)
	if _, err := os.Stat(filepath.Join(dir, metadataFile)); err != nil {
		return notFound(runID, err)
	}
	return os.RemoveAll(dir)
}

func notFound(runID string, err error) error {
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return err
}
