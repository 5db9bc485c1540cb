package pairwise

import (
	"time"

	"github.com/chewxy/math32"
)

// Position is a particle coordinate in box units.
type Position [3]float32

// PositionSet is indexed by particle identity.
type PositionSet []Position

func (p PositionSet) Clone() PositionSet {
	c := make(PositionSet, len(p))
	copy(c, p)
	return c
}

// IsValid reports whether every coordinate is finite.
func (p PositionSet) IsValid() bool {
	for _, pos := range p {
		for _, v := range pos {
			if math32.IsNaN(v) || math32.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// Tolerances record the numeric precision the engine is written against.
// They do not gate any branch in Compute.
type Tolerances struct {
	SP float32
	DP float64
}

func DefaultTolerances() Tolerances {
	return Tolerances{
		SP: 1e-6,
		DP: 1e-15,
	}
}

// Observer receives progress from Compute. OnRow is called from worker
// goroutines and must be safe for concurrent use.
type Observer interface {
	OnRow(i, pairs int)
	OnComplete(n int, elapsed time.Duration)
}

type multiObserver []Observer

func (m multiObserver) OnRow(i, pairs int) {
	for _, o := range m {
		o.OnRow(i, pairs)
	}
}

func (m multiObserver) OnComplete(n int, elapsed time.Duration) {
	for _, o := range m {
		o.OnComplete(n, elapsed)
	}
}

// Observers fans events out to every non-nil observer.
func Observers(obs ...Observer) Observer {
	out := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return nil
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}
