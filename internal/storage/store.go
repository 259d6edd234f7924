package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const (
	metadataFile  = "metadata.json"
	staticFile    = "static.csv"
	particlesFile = "particles.csv"
	pressureFile  = "pressure.csv"
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

func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type RunMetadata struct {
	ID             string             `json:"id"`
	Scenario       string             `json:"scenario"`
	Preset         string             `json:"preset,omitempty"`
	Timestamp      time.Time          `json:"timestamp"`
	Seed           int64              `json:"seed"`
	Width          float64            `json:"width"`
	Height         float64            `json:"height"`
	Bodies         int                `json:"bodies"`
	Radius         float64            `json:"radius"`
	Speed          float64            `json:"speed"`
	ObstacleRadius float64            `json:"obstacle_radius"`
	ObstacleMass   float64            `json:"obstacle_mass"`
	BinDt          float64            `json:"bin_dt"`
	TieBreak       string             `json:"tie_break"`
	Steps          int                `json:"steps"`
	SimTime        float64            `json:"sim_time"`
	Reason         string             `json:"reason"`
	ElapsedSeconds float64            `json:"elapsed_seconds"`
	SaveEvery      int                `json:"save_every"`
	Surfaces       []string           `json:"surfaces"`
	Metrics        map[string]float64 `json:"metrics"`
}

// Run is one run directory being written.
type Run struct {
	ID  string
	Dir string
}

// Create makes a fresh run directory named after the scenario.
func (s *Store) Create(scenario string) (*Run, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, err
	}
	return &Run{ID: runID, Dir: runDir}, nil
}

func (r *Run) path(name string) string { return filepath.Join(r.Dir, name) }

func (r *Run) SaveMetadata(meta RunMetadata) error {
	meta.ID = r.ID
	metaFile, err := os.Create(r.path(metadataFile))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// List returns every readable run, oldest first.
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
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}
