package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/pairdist/internal/pairwise"
)

// Summary describes the off-diagonal entries of a distance matrix.
type Summary struct {
	Particles int     `json:"particles"`
	Pairs     int     `json:"pairs"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"stddev"`
}

// PairDistances returns the upper triangle of m as float64, sorted ascending.
func PairDistances(m *pairwise.Matrix) []float64 {
	upper := m.UpperTriangle()
	out := make([]float64, len(upper))
	for k, v := range upper {
		out[k] = float64(v)
	}
	sort.Float64s(out)
	return out
}

func Summarize(m *pairwise.Matrix) Summary {
	s := Summary{Particles: m.N()}
	d := PairDistances(m)
	s.Pairs = len(d)
	if len(d) == 0 {
		return s
	}

	s.Min = floats.Min(d)
	s.Max = floats.Max(d)
	if len(d) == 1 {
		s.Mean = d[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(d, nil)
	return s
}

// Histogram counts pair distances in equal-width bins over [0, Max).
type Histogram struct {
	Edges    []float64 // len(Counts)+1
	Counts   []float64
	Overflow int // pairs at or beyond Max
}

func (h Histogram) BinWidth() float64 {
	if len(h.Edges) < 2 {
		return 0
	}
	return h.Edges[1] - h.Edges[0]
}

// Centers returns the midpoint of every bin.
func (h Histogram) Centers() []float64 {
	c := make([]float64, len(h.Counts))
	for k := range c {
		c[k] = 0.5 * (h.Edges[k] + h.Edges[k+1])
	}
	return c
}

func (h Histogram) Total() float64 {
	return floats.Sum(h.Counts)
}

// NewHistogram bins the pair distances of m. bins must be positive and max
// greater than zero.
func NewHistogram(m *pairwise.Matrix, bins int, max float64) Histogram {
	return histogramOf(PairDistances(m), bins, max)
}

func histogramOf(sorted []float64, bins int, max float64) Histogram {
	if bins < 1 {
		bins = 1
	}
	if !(max > 0) {
		max = 1
	}

	edges := make([]float64, bins+1)
	floats.Span(edges, 0, max)

	cut := sort.SearchFloat64s(sorted, max)
	h := Histogram{
		Edges:    edges,
		Overflow: len(sorted) - cut,
	}
	h.Counts = stat.Histogram(nil, edges, sorted[:cut], nil)
	return h
}

// Bin is one shell of the radial distribution function.
type Bin struct {
	R     float64 `json:"r"`
	G     float64 `json:"g"`
	Count float64 `json:"count"`
}

// RadialDistribution estimates g(r) out to the smallest half box length.
// Counts are normalized by the number of pairs an ideal gas of the same density
// would place in each spherical shell.
func RadialDistribution(m *pairwise.Matrix, box pairwise.Box, bins int) []Bin {
	rmax := float64(box.Half[0])
	for _, h := range box.Half[1:] {
		rmax = math.Min(rmax, float64(h))
	}

	h := NewHistogram(m, bins, rmax)
	out := make([]Bin, len(h.Counts))
	n := float64(m.N())
	volume := float64(box.Volume())
	pairs := n * (n - 1) / 2

	for k, count := range h.Counts {
		r0, r1 := h.Edges[k], h.Edges[k+1]
		shell := 4.0 / 3.0 * math.Pi * (r1*r1*r1 - r0*r0*r0)
		ideal := pairs * shell / volume
		out[k] = Bin{R: 0.5 * (r0 + r1), Count: count}
		if ideal > 0 {
			out[k].G = count / ideal
		}
	}
	return out
}
