package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/san-kum/pairdist/internal/pairwise"
)

// PairRow is one unordered pair of the upper triangle.
type PairRow struct {
	I        int32   `parquet:"i" json:"i"`
	J        int32   `parquet:"j" json:"j"`
	Distance float32 `parquet:"distance" json:"distance"`
}

type ExportData struct {
	Run       RunMetadata          `json:"run"`
	Positions pairwise.PositionSet `json:"positions"`
	Distances [][]float32          `json:"distances"`
}

// ExportJSON writes metadata, positions and the nested matrix to w.
func ExportJSON(w io.Writer, meta RunMetadata, positions pairwise.PositionSet, m *pairwise.Matrix) error {
	data := ExportData{
		Run:       meta,
		Positions: positions,
		Distances: m.Rows(),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportParquet writes the upper triangle of m as (i, j, distance) rows and
// returns the number of rows written.
func ExportParquet(path string, m *pairwise.Matrix) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	w := parquet.NewGenericWriter[PairRow](file)
	n := m.N()
	rows := make([]PairRow, 0, n)
	total := 0
	for i := 0; i < n; i++ {
		rows = rows[:0]
		row := m.Row(i)
		for j := i + 1; j < n; j++ {
			rows = append(rows, PairRow{I: int32(i), J: int32(j), Distance: row[j]})
		}
		if len(rows) == 0 {
			continue
		}
		written, err := w.Write(rows)
		total += written
		if err != nil {
			return total, err
		}
	}

	if err := w.Close(); err != nil {
		return total, err
	}
	return total, nil
}

// ReadParquet loads the pair rows written by ExportParquet.
func ReadParquet(path string) ([]PairRow, error) {
	return parquet.ReadFile[PairRow](path)
}

// MatrixFromPairs rebuilds an n×n matrix from an upper-triangle pair list.
func MatrixFromPairs(n int, pairs []PairRow) *pairwise.Matrix {
	m := pairwise.NewMatrix(n)
	data := m.Data()
	for _, p := range pairs {
		i, j := int(p.I), int(p.J)
		data[i*n+j] = p.Distance
		data[j*n+i] = p.Distance
	}
	return m
}
