package pairwise_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pairdist/internal/pairwise"
	"github.com/san-kum/pairdist/internal/particles"
)

const tol = 1e-6

func engineWith(workers int, d pairwise.Discipline) *pairwise.Engine {
	cfg := pairwise.DefaultConfig()
	cfg.Workers = workers
	cfg.Discipline = d
	return pairwise.New(cfg)
}

type rowCounter struct {
	rows      atomic.Int64
	pairs     atomic.Int64
	completed atomic.Int64
	lastN     atomic.Int64
}

func (c *rowCounter) OnRow(i, pairs int) {
	c.rows.Add(1)
	c.pairs.Add(int64(pairs))
}

func (c *rowCounter) OnComplete(n int, elapsed time.Duration) {
	c.completed.Add(1)
	c.lastN.Store(int64(n))
}

var _ = Describe("Engine", func() {
	disciplines := []pairwise.Discipline{pairwise.Disjoint, pairwise.Locked}

	for _, d := range disciplines {
		d := d

		Context("with the "+d.String()+" discipline", func() {
			var eng *pairwise.Engine

			BeforeEach(func() {
				eng = engineWith(8, d)
			})

			It("returns an empty matrix for n = 0", func() {
				m := eng.Compute(nil, 0)
				Expect(m.N()).To(Equal(0))
				Expect(m.Data()).To(BeEmpty())
			})

			It("returns a 1x1 zero matrix for n = 1", func() {
				m := eng.Compute(pairwise.PositionSet{{0.3, 0.4, 0.5}}, 1)
				Expect(m.N()).To(Equal(1))
				Expect(m.At(0, 0)).To(BeZero())
			})

			It("fills both off-diagonal cells for n = 2", func() {
				ps := pairwise.PositionSet{{0.1, 0.1, 0.1}, {0.2, 0.1, 0.1}}
				m := eng.Compute(ps, 2)
				Expect(m.At(0, 1)).To(BeNumerically("~", 0.1, tol))
				Expect(m.At(1, 0)).To(Equal(m.At(0, 1)))
				Expect(m.At(0, 0)).To(BeZero())
				Expect(m.At(1, 1)).To(BeZero())
			})

			DescribeTable("minimum-image distances",
				func(a, b pairwise.Position, want float64) {
					m := eng.Compute(pairwise.PositionSet{a, b}, 2)
					Expect(m.At(0, 1)).To(BeNumerically("~", want, tol))
					Expect(m.At(1, 0)).To(Equal(m.At(0, 1)))
				},
				Entry("wraps across the x face", pairwise.Position{0.01, 0.5, 0.5}, pairwise.Position{0.99, 0.5, 0.5}, 0.02),
				Entry("wraps in the other direction", pairwise.Position{0.99, 0.5, 0.5}, pairwise.Position{0.01, 0.5, 0.5}, 0.02),
				Entry("no wrap inside half a box", pairwise.Position{0.1, 0.1, 0.1}, pairwise.Position{0.2, 0.1, 0.1}, 0.1),
				Entry("wraps on every axis", pairwise.Position{0.05, 0.05, 0.05}, pairwise.Position{0.95, 0.95, 0.95}, 0.17320508),
				Entry("identical positions", pairwise.Position{0.4, 0.4, 0.4}, pairwise.Position{0.4, 0.4, 0.4}, 0.0),
			)

			It("keeps every invariant on random input", func() {
				ps := particles.Uniform(300, pairwise.UnitBox(), 7)
				m := eng.Compute(ps, len(ps))
				Expect(m.Validate(0)).To(Succeed())
				Expect(float64(m.Max())).To(BeNumerically("<=", float64(pairwise.UnitBox().MaxDistance())+tol))
			})

			It("matches the serial computation bit for bit", func() {
				ps := particles.Uniform(257, pairwise.UnitBox(), 11)
				serial := eng.ComputeSerial(ps, len(ps))
				for _, workers := range []int{1, 2, 3, 16, 64} {
					m := engineWith(workers, d).Compute(ps, len(ps))
					Expect(m.Equal(serial)).To(BeTrue(), "workers=%d", workers)
				}
			})

			It("does not mutate the input", func() {
				ps := particles.Uniform(64, pairwise.UnitBox(), 3)
				before := ps.Clone()
				eng.Compute(ps, len(ps))
				Expect(ps).To(Equal(before))
			})
		})
	}

	It("gives the same matrix under both disciplines", func() {
		ps := particles.Uniform(200, pairwise.UnitBox(), 5)
		a := engineWith(4, pairwise.Disjoint).Compute(ps, len(ps))
		b := engineWith(4, pairwise.Locked).Compute(ps, len(ps))
		Expect(a.Equal(b)).To(BeTrue())
	})

	It("stays consistent when many computations share one engine", func() {
		ps := particles.Uniform(120, pairwise.UnitBox(), 9)
		eng := engineWith(4, pairwise.Locked)
		want := eng.ComputeSerial(ps, len(ps))

		var wg sync.WaitGroup
		results := make([]*pairwise.Matrix, 8)
		for k := range results {
			wg.Add(1)
			go func(k int) {
				defer wg.Done()
				results[k] = eng.Compute(ps, len(ps))
			}(k)
		}
		wg.Wait()

		for _, m := range results {
			Expect(m.Equal(want)).To(BeTrue())
		}
	})

	It("honours a non-cubic box", func() {
		cfg := pairwise.DefaultConfig()
		cfg.Box = pairwise.NewBox(2, 1, 4)
		eng := pairwise.New(cfg)
		ps := pairwise.PositionSet{{0.1, 0.1, 0.1}, {1.9, 0.1, 3.9}}
		m := eng.Compute(ps, 2)
		// dx = -1.8 -> 0.2, dz = -3.8 -> 0.2
		Expect(m.At(0, 1)).To(BeNumerically("~", 0.28284271, tol))
	})

	It("reports every row to the observer", func() {
		eng := engineWith(4, pairwise.Disjoint)
		obs := &rowCounter{}
		eng.SetObserver(obs)

		ps := particles.Uniform(50, pairwise.UnitBox(), 1)
		eng.Compute(ps, len(ps))

		Expect(obs.rows.Load()).To(Equal(int64(50)))
		Expect(obs.pairs.Load()).To(Equal(int64(pairwise.PairCount(50))))
		Expect(obs.completed.Load()).To(Equal(int64(1)))
		Expect(obs.lastN.Load()).To(Equal(int64(50)))
	})

	It("reports completion even when there is no pair", func() {
		eng := engineWith(4, pairwise.Disjoint)
		obs := &rowCounter{}
		eng.SetObserver(obs)
		eng.Compute(nil, 0)
		Expect(obs.rows.Load()).To(BeZero())
		Expect(obs.completed.Load()).To(Equal(int64(1)))
	})

	DescribeTable("panics on a broken input contract",
		func(ps pairwise.PositionSet, n int, want error) {
			eng := engineWith(2, pairwise.Disjoint)
			defer func() {
				r := recover()
				Expect(r).NotTo(BeNil())
				err, ok := r.(error)
				Expect(ok).To(BeTrue())
				Expect(errors.Is(err, want)).To(BeTrue())
				var pe *pairwise.PreconditionError
				Expect(errors.As(err, &pe)).To(BeTrue())
				Expect(pe.N).To(Equal(n))
				Expect(pe.Len).To(Equal(len(ps)))
			}()
			eng.Compute(ps, n)
		},
		Entry("too few positions", pairwise.PositionSet{{0, 0, 0}}, 2, pairwise.ErrShapeMismatch),
		Entry("too many positions", pairwise.PositionSet{{0, 0, 0}, {0.5, 0.5, 0.5}}, 1, pairwise.ErrShapeMismatch),
		Entry("negative count", pairwise.PositionSet{}, -1, pairwise.ErrNegativeCount),
	)

	It("fills defaults for a zero config", func() {
		eng := pairwise.New(pairwise.Config{})
		cfg := eng.Config()
		Expect(cfg.Box).To(Equal(pairwise.UnitBox()))
		Expect(cfg.Workers).To(BeNumerically(">", 0))
		Expect(cfg.Tolerances).To(Equal(pairwise.DefaultTolerances()))
		Expect(cfg.Discipline).To(Equal(pairwise.Disjoint))
	})

	It("is reachable through the package-level Compute", func() {
		ps := pairwise.PositionSet{{0.01, 0.5, 0.5}, {0.99, 0.5, 0.5}, {0.5, 0.5, 0.5}}
		m := pairwise.Compute(ps, len(ps))
		Expect(m.Validate(0)).To(Succeed())
		Expect(m.At(0, 1)).To(BeNumerically("~", 0.02, tol))
	})
})
