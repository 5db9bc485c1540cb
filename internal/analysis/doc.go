// Package analysis summarizes distance matrices.
//
// The package provides post-processing for a computed [pairwise.Matrix]:
//
//   - [Summarize]: min, max, mean and spread of the pair distances
//   - [NewHistogram]: pair-distance histogram over a fixed range
//   - [RadialDistribution]: g(r) normalized against an ideal gas
//
// # Scale Sanity
//
// For particles kept inside the box, no pair can be further apart than the
// half-diagonal of the box:
//
//	s := analysis.Summarize(m)
//	if s.Max > float64(box.MaxDistance()) {
//	    // positions were outside [0, L)
//	}
package analysis
