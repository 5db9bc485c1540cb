package pairwise

import (
	"runtime"
	"time"
)

type Config struct {
	Box        Box
	Workers    int // <= 0 selects runtime.NumCPU()
	Discipline Discipline
	Tolerances Tolerances
}

func DefaultConfig() Config {
	return Config{
		Box:        UnitBox(),
		Workers:    runtime.NumCPU(),
		Discipline: Disjoint,
		Tolerances: DefaultTolerances(),
	}
}

// Engine computes minimum-image distance matrices. It keeps no state between
// calls beyond its configuration.
type Engine struct {
	cfg      Config
	observer Observer
}

func New(cfg Config) *Engine {
	if cfg.Box.IsZero() {
		cfg.Box = UnitBox()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Tolerances == (Tolerances{}) {
		cfg.Tolerances = DefaultTolerances()
	}
	return &Engine{cfg: cfg}
}

func (e *Engine) Config() Config { return e.cfg }

// SetObserver installs o for subsequent calls. A nil observer disables
// notifications.
func (e *Engine) SetObserver(o Observer) {
	e.observer = o
}

// Compute returns the n×n minimum-image distance matrix for positions.
//
// len(positions) must equal n. Violating that is a programming error and
// panics with a *PreconditionError; there is no partial result to return.
// positions is only read.
func (e *Engine) Compute(positions PositionSet, n int) *Matrix {
	return e.compute(positions, n, e.cfg.Workers)
}

// ComputeSerial is Compute on the calling goroutine only.
func (e *Engine) ComputeSerial(positions PositionSet, n int) *Matrix {
	return e.compute(positions, n, 1)
}

func (e *Engine) compute(positions PositionSet, n, workers int) *Matrix {
	checkShape(positions, n)

	start := time.Now()
	m := NewMatrix(n)
	if n > 1 {
		w := newRowWriter(e.cfg.Discipline, m)
		box := e.cfg.Box
		obs := e.observer
		ParallelRows(n, workers, func(i int) {
			pairs := w.fillRow(i, positions, box)
			if obs != nil {
				obs.OnRow(i, pairs)
			}
		})
		w.finish()
	}

	if e.observer != nil {
		e.observer.OnComplete(n, time.Since(start))
	}
	return m
}

func checkShape(positions PositionSet, n int) {
	if n < 0 {
		panic(&PreconditionError{N: n, Len: len(positions), Wrapped: ErrNegativeCount})
	}
	if len(positions) != n {
		panic(&PreconditionError{N: n, Len: len(positions), Wrapped: ErrShapeMismatch})
	}
}

// Compute runs a default-configured Engine.
func Compute(positions PositionSet, n int) *Matrix {
	return New(DefaultConfig()).Compute(positions, n)
}

// PairCount is the number of unordered pairs among n particles.
func PairCount(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}
