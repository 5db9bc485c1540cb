package pairwise_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pairdist/internal/pairwise"
)

var _ = Describe("Box", func() {
	box := pairwise.UnitBox()

	DescribeTable("MinImage",
		func(d, want float32) {
			Expect(box.MinImage(d, 0)).To(BeNumerically("~", want, 1e-6))
		},
		Entry("inside the half box", float32(0.3), float32(0.3)),
		Entry("exactly half is left alone", float32(0.5), float32(0.5)),
		Entry("exactly minus half is left alone", float32(-0.5), float32(-0.5)),
		Entry("above half", float32(0.98), float32(-0.02)),
		Entry("below minus half", float32(-0.98), float32(0.02)),
		Entry("zero", float32(0), float32(0)),
	)

	It("derives half lengths per axis", func() {
		b := pairwise.NewBox(2, 4, 6)
		Expect(b.Half).To(Equal([3]float32{1, 2, 3}))
		Expect(b.IsCubic()).To(BeFalse())
		Expect(b.Volume()).To(BeNumerically("==", 48))
		Expect(pairwise.NewCubicBox(3).IsCubic()).To(BeTrue())
	})

	It("bounds the minimum-image distance", func() {
		Expect(box.MaxDistance()).To(BeNumerically("~", 0.8660254, 1e-6))
	})

	It("is symmetric in its arguments", func() {
		a := pairwise.Position{0.12, 0.87, 0.33}
		b := pairwise.Position{0.91, 0.05, 0.6}
		Expect(box.Distance(a, b)).To(Equal(box.Distance(b, a)))
	})

	DescribeTable("Validate",
		func(b pairwise.Box, ok bool) {
			err := b.Validate()
			if ok {
				Expect(err).NotTo(HaveOccurred())
			} else {
				Expect(err).To(MatchError(pairwise.ErrInvalidBox))
			}
		},
		Entry("unit box", pairwise.UnitBox(), true),
		Entry("zero edge", pairwise.NewBox(1, 0, 1), false),
		Entry("negative edge", pairwise.NewBox(1, 1, -2), false),
		Entry("zero box", pairwise.Box{}, false),
	)
})

var _ = Describe("Discipline", func() {
	DescribeTable("ParseDiscipline",
		func(s string, want pairwise.Discipline) {
			d, err := pairwise.ParseDiscipline(s)
			Expect(err).NotTo(HaveOccurred())
			Expect(d).To(Equal(want))
		},
		Entry("empty defaults to disjoint", "", pairwise.Disjoint),
		Entry("disjoint", "disjoint", pairwise.Disjoint),
		Entry("locked", "Locked", pairwise.Locked),
		Entry("mutex alias", "mutex", pairwise.Locked),
	)

	It("rejects unknown names", func() {
		_, err := pairwise.ParseDiscipline("lockfree")
		Expect(err).To(MatchError(pairwise.ErrUnknownDiscipline))
	})

	It("round-trips names", func() {
		for _, name := range pairwise.DisciplineNames() {
			d, err := pairwise.ParseDiscipline(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.String()).To(Equal(name))
		}
	})
})
