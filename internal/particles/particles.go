// Package particles builds position sets for the distance engine.
package particles

import (
	"math/rand"

	"github.com/chewxy/math32"

	"github.com/san-kum/pairdist/internal/pairwise"
)

// Uniform draws n positions uniformly in [0, L) on every axis. The same seed
// always yields the same set.
func Uniform(n int, box pairwise.Box, seed int64) pairwise.PositionSet {
	rng := rand.New(rand.NewSource(seed))
	ps := make(pairwise.PositionSet, n)
	for i := range ps {
		p := pairwise.Position{
			rng.Float32() * box.L[0],
			rng.Float32() * box.L[1],
			rng.Float32() * box.L[2],
		}
		ps[i] = Wrap(p, box)
	}
	return ps
}

// Lattice places n particles on the sites of a simple cubic lattice with k³ ≥ n
// sites, filling x fastest. Sites sit at cell centers.
func Lattice(n int, box pairwise.Box) pairwise.PositionSet {
	ps := make(pairwise.PositionSet, n)
	if n == 0 {
		return ps
	}

	k := 1
	for k*k*k < n {
		k++
	}
	var step [3]float32
	for a := range step {
		step[a] = box.L[a] / float32(k)
	}

	for i := range ps {
		ix := i % k
		iy := (i / k) % k
		iz := i / (k * k)
		ps[i] = pairwise.Position{
			(float32(ix) + 0.5) * step[0],
			(float32(iy) + 0.5) * step[1],
			(float32(iz) + 0.5) * step[2],
		}
	}
	return ps
}

// Wrap folds p back into [0, L) on every axis.
func Wrap(p pairwise.Position, box pairwise.Box) pairwise.Position {
	for a := range p {
		l := box.L[a]
		p[a] -= l * math32.Floor(p[a]/l)
		if p[a] >= l {
			p[a] = 0
		}
	}
	return p
}

// InBox reports whether every coordinate lies in [0, L).
func InBox(ps pairwise.PositionSet, box pairwise.Box) bool {
	for _, p := range ps {
		for a, v := range p {
			if v < 0 || v >= box.L[a] {
				return false
			}
		}
	}
	return true
}
