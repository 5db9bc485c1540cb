// Package pairwise computes dense minimum-image distance matrices for particles
// in a periodic box.
//
// The package defines the engine and the values it works with:
//
//   - [Position]: single-precision 3D coordinate inside the box
//   - [Box]: periodic box geometry and the minimum-image correction
//   - [Matrix]: N×N symmetric distance matrix, row-major
//   - [Engine]: parallel brute-force computation over all pairs
//   - [Observer]: optional per-row and per-call hook
//
// # Example
//
//	positions := particles.Uniform(4000, pairwise.UnitBox(), 42)
//	eng := pairwise.New(pairwise.DefaultConfig())
//	m := eng.Compute(positions, len(positions))
//	d := m.At(0, 1)
//
// # Thread Safety
//
// An Engine holds no per-call state, so one Engine may be used from several
// goroutines. Compute fans out over the outer particle index and joins before
// returning; the result is bit-identical for every worker count and both write
// disciplines.
package pairwise
