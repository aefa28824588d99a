package verlet_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ropesim/internal/vec"
	"github.com/san-kum/ropesim/internal/verlet"
)

func relaxOnce(a, b verlet.Point, length float64) (verlet.Point, verlet.Point) {
	s := verlet.New(verlet.Config{Gravity: vec.V(0, 0)})
	ha := s.AddPoint(a.Position, a.Locked)
	hb := s.AddPoint(b.Position, b.Locked)
	_, err := s.AddStickWithLength(ha, hb, length)
	Expect(err).NotTo(HaveOccurred())

	s.Relax()

	pa, _ := s.Point(ha)
	pb, _ := s.Point(hb)
	return pa, pb
}

var _ = Describe("Stick", func() {
	It("reaches its rest length in one pass and keeps the midpoint", func() {
		a, b := relaxOnce(verlet.NewPoint(vec.V(0, 0), false), verlet.NewPoint(vec.V(10, 0), false), 4)

		Expect(a.Position.Distance(b.Position)).To(BeNumerically("~", 4, 1e-12))
		mid := a.Position.Midpoint(b.Position)
		Expect(mid.X).To(BeNumerically("~", 5, 1e-12))
		Expect(mid.Y).To(BeNumerically("~", 0, 1e-12))
		Expect(a.Position.ApproxEqual(vec.V(3, 0), 1e-12)).To(BeTrue())
		Expect(b.Position.ApproxEqual(vec.V(7, 0), 1e-12)).To(BeTrue())
	})

	It("stretches a compressed stick", func() {
		a, b := relaxOnce(verlet.NewPoint(vec.V(4, 0), false), verlet.NewPoint(vec.V(6, 0), false), 6)

		Expect(a.Position.ApproxEqual(vec.V(2, 0), 1e-12)).To(BeTrue())
		Expect(b.Position.ApproxEqual(vec.V(8, 0), 1e-12)).To(BeTrue())
	})

	It("moves only the free endpoint when A is locked", func() {
		a, b := relaxOnce(verlet.NewPoint(vec.V(0, 0), true), verlet.NewPoint(vec.V(10, 0), false), 4)

		Expect(a.Position).To(Equal(vec.V(0, 0)))
		Expect(b.Position.ApproxEqual(vec.V(4, 0), 1e-12)).To(BeTrue())
	})

	It("moves only the free endpoint when B is locked", func() {
		a, b := relaxOnce(verlet.NewPoint(vec.V(0, 10), false), verlet.NewPoint(vec.V(0, 0), true), 4)

		Expect(b.Position).To(Equal(vec.V(0, 0)))
		Expect(a.Position.ApproxEqual(vec.V(0, 4), 1e-12)).To(BeTrue())
	})

	It("does nothing when both endpoints are locked", func() {
		a, b := relaxOnce(verlet.NewPoint(vec.V(0, 0), true), verlet.NewPoint(vec.V(10, 0), true), 4)

		Expect(a.Position).To(Equal(vec.V(0, 0)))
		Expect(b.Position).To(Equal(vec.V(10, 0)))
	})

	Context("with coincident endpoints", func() {
		It("separates them along the fallback direction", func() {
			a, b := relaxOnce(verlet.NewPoint(vec.V(5, 5), false), verlet.NewPoint(vec.V(5, 5), false), 4)

			Expect(a.Position).To(Equal(vec.V(7, 5)))
			Expect(b.Position).To(Equal(vec.V(3, 5)))
			Expect(a.Position.IsValid()).To(BeTrue())
		})

		It("pushes the free endpoint away from a locked one", func() {
			a, b := relaxOnce(verlet.NewPoint(vec.V(5, 5), true), verlet.NewPoint(vec.V(5, 5), false), 4)

			Expect(a.Position).To(Equal(vec.V(5, 5)))
			Expect(b.Position).To(Equal(vec.V(1, 5)))
		})

		It("leaves a zero-length stick collapsed", func() {
			a, b := relaxOnce(verlet.NewPoint(vec.V(1, 1), false), verlet.NewPoint(vec.V(1, 1), false), 0)

			Expect(a.Position).To(Equal(vec.V(1, 1)))
			Expect(b.Position).To(Equal(vec.V(1, 1)))
		})
	})

	It("reports strain relative to rest length", func() {
		s := verlet.New(verlet.DefaultConfig())
		a := s.AddPoint(vec.V(0, 0), false)
		b := s.AddPoint(vec.V(15, 0), false)
		i, err := s.AddStickWithLength(a, b, 10)
		Expect(err).NotTo(HaveOccurred())

		Expect(s.StickLength(i)).To(BeNumerically("~", 15, 1e-12))
		Expect(s.StickStrain(i)).To(BeNumerically("~", 0.5, 1e-12))
	})
})
