package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/pairdist/internal/analysis"
	"github.com/san-kum/pairdist/internal/pairwise"
)

const (
	metadataFile  = "metadata.json"
	positionsFile = "positions.csv"
	distancesFile = "distances.csv"
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
	ID         string           `json:"id"`
	Timestamp  time.Time        `json:"timestamp"`
	Particles  int              `json:"particles"`
	Seed       int64            `json:"seed"`
	Workers    int              `json:"workers"`
	Discipline string           `json:"discipline"`
	Box        [3]float32       `json:"box"`
	Elapsed    float64          `json:"elapsed_seconds"`
	Summary    analysis.Summary `json:"summary"`
}

// BoxGeometry rebuilds the box the run was computed in.
func (m *RunMetadata) BoxGeometry() pairwise.Box {
	return pairwise.NewBox(m.Box[0], m.Box[1], m.Box[2])
}

// Save writes metadata, positions and the full matrix into a new run
// directory and returns its id. meta.ID and meta.Timestamp are filled in.
func (s *Store) Save(meta RunMetadata, positions pairwise.PositionSet, m *pairwise.Matrix) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("n%d_%d", m.N(), now.UnixNano())
	meta.Timestamp = now
	meta.Particles = m.N()
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	if err := writeCSV(filepath.Join(runDir, positionsFile), func(w *csv.Writer) error {
		if err := w.Write([]string{"x", "y", "z"}); err != nil {
			return err
		}
		for _, p := range positions {
			if err := w.Write([]string{formatFloat(p[0]), formatFloat(p[1]), formatFloat(p[2])}); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return "", err
	}

	if err := writeCSV(filepath.Join(runDir, distancesFile), func(w *csv.Writer) error {
		row := make([]string, m.N())
		for i := 0; i < m.N(); i++ {
			for j, v := range m.Row(i) {
				row[j] = formatFloat(v)
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return "", err
	}

	return meta.ID, nil
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

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
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

func (s *Store) LoadPositions(runID string) (pairwise.PositionSet, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, positionsFile))
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return pairwise.PositionSet{}, nil
	}

	ps := make(pairwise.PositionSet, 0, len(records)-1)
	for line, record := range records[1:] {
		if len(record) != 3 {
			return nil, fmt.Errorf("%s line %d: expected 3 fields, got %d", positionsFile, line+2, len(record))
		}
		var p pairwise.Position
		for a := range p {
			v, err := parseFloat(record[a])
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", positionsFile, line+2, err)
			}
			p[a] = v
		}
		ps = append(ps, p)
	}
	return ps, nil
}

func (s *Store) LoadMatrix(runID string) (*pairwise.Matrix, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, distancesFile))
	if err != nil {
		return nil, err
	}

	n := len(records)
	m := pairwise.NewMatrix(n)
	data := m.Data()
	for i, record := range records {
		if len(record) != n {
			return nil, fmt.Errorf("%s row %d: expected %d fields, got %d", distancesFile, i, n, len(record))
		}
		for j, field := range record {
			v, err := parseFloat(field)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: %w", distancesFile, i, err)
			}
			data[i*n+j] = v
		}
	}
	return m, nil
}

// MatrixPath is the CSV file holding a run's matrix.
func (s *Store) MatrixPath(runID string) string {
	return filepath.Join(s.baseDir, runID, distancesFile)
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

func writeCSV(path string, fill func(w *csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := fill(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// formatFloat keeps the shortest text that parses back to the same float32.
func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

func parseFloat(s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	return float32(v), err
}
