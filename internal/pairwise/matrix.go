package pairwise

import (
	"math"

	"github.com/chewxy/math32"
)

// Matrix is a dense N×N distance matrix stored row-major.
type Matrix struct {
	n    int
	data []float32
}

// NewMatrix allocates a zeroed n×n matrix.
func NewMatrix(n int) *Matrix {
	return &Matrix{n: n, data: make([]float32, n*n)}
}

func (m *Matrix) N() int { return m.n }

func (m *Matrix) At(i, j int) float32 {
	return m.data[i*m.n+j]
}

// Row returns row i as a view into the matrix storage.
func (m *Matrix) Row(i int) []float32 {
	return m.data[i*m.n : (i+1)*m.n : (i+1)*m.n]
}

// Data returns the flat row-major storage.
func (m *Matrix) Data() []float32 {
	return m.data
}

// Rows copies the matrix into nested slices.
func (m *Matrix) Rows() [][]float32 {
	rows := make([][]float32, m.n)
	for i := range rows {
		rows[i] = make([]float32, m.n)
		copy(rows[i], m.Row(i))
	}
	return rows
}

// mirror copies the upper triangle into the lower one.
func (m *Matrix) mirror() {
	n := m.n
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			m.data[j*n+i] = m.data[i*n+j]
		}
	}
}

// UpperTriangle returns the entries with i < j in row order.
func (m *Matrix) UpperTriangle() []float32 {
	if m.n < 2 {
		return []float32{}
	}
	out := make([]float32, 0, m.n*(m.n-1)/2)
	for i := 0; i < m.n; i++ {
		out = append(out, m.data[i*m.n+i+1:(i+1)*m.n]...)
	}
	return out
}

func (m *Matrix) Max() float32 {
	var max float32
	for _, v := range m.data {
		if v > max {
			max = v
		}
	}
	return max
}

// Equal reports bit-identical contents.
func (m *Matrix) Equal(other *Matrix) bool {
	if other == nil || m.n != other.n {
		return false
	}
	for k, v := range m.data {
		if math.Float32bits(v) != math.Float32bits(other.data[k]) {
			return false
		}
	}
	return true
}

// Validate checks the zero diagonal, symmetry within tol, non-negativity and
// finiteness of every entry.
func (m *Matrix) Validate(tol float32) error {
	n := m.n
	for i := 0; i < n; i++ {
		if d := m.data[i*n+i]; d != 0 {
			return &MatrixError{Row: i, Col: i, Value: d, Wrapped: ErrNonZeroDiagonal}
		}
		for j := 0; j < n; j++ {
			v := m.data[i*n+j]
			if math32.IsNaN(v) || math32.IsInf(v, 0) {
				return &MatrixError{Row: i, Col: j, Value: v, Wrapped: ErrNonFinite}
			}
			if v < 0 {
				return &MatrixError{Row: i, Col: j, Value: v, Wrapped: ErrNegativeDistance}
			}
			if j > i && math32.Abs(v-m.data[j*n+i]) > tol {
				return &MatrixError{Row: i, Col: j, Value: v, Wrapped: ErrAsymmetric}
			}
		}
	}
	return nil
}
