// Package storage persists run results: one directory per run holding
// metadata JSON and the thermodynamic time series as CSV.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kmadler/mdthr/internal/sim"
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
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Atoms     int                `json:"atoms"`
	Threads   int                `json:"threads"`
	Newton    bool               `json:"newton"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	Seed      int64              `json:"seed"`
	Metrics   map[string]float64 `json:"metrics"`
}

func (s *Store) Save(atomCount, threads int, newton bool, dt float64, steps int, seed int64, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		Atoms:     atomCount,
		Threads:   threads,
		Newton:    newton,
		Dt:        dt,
		Steps:     steps,
		Seed:      seed,
		Metrics:   result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "thermo.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"time", "pot", "kin", "temp", "press"}); err != nil {
		return "", err
	}

	for i := range result.Times {
		row := []string{
			strconv.FormatFloat(result.Times[i], 'f', 6, 64),
			strconv.FormatFloat(result.Pot[i], 'f', 6, 64),
			strconv.FormatFloat(result.Kin[i], 'f', 6, 64),
			strconv.FormatFloat(result.Temp[i], 'f', 6, 64),
			strconv.FormatFloat(result.Press[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

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

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// Thermo is the stored per-step series of one run.
type Thermo struct {
	Times []float64
	Pot   []float64
	Kin   []float64
	Temp  []float64
	Press []float64
}

func (s *Store) LoadThermo(runID string) (*Thermo, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "thermo.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	th := &Thermo{}
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 5 {
			continue
		}
		vals := make([]float64, 5)
		ok := true
		for k := 0; k < 5; k++ {
			v, err := strconv.ParseFloat(record[k], 64)
			if err != nil {
				ok = false
				break
			}
			vals[k] = v
		}
		if !ok {
			continue
		}
		th.Times = append(th.Times, vals[0])
		th.Pot = append(th.Pot, vals[1])
		th.Kin = append(th.Kin, vals[2])
		th.Temp = append(th.Temp, vals[3])
		th.Press = append(th.Press, vals[4])
	}

	return th, nil
}
