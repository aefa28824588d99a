package verlet_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ropesim/internal/vec"
	"github.com/san-kum/ropesim/internal/verlet"
)

var _ = Describe("Point", func() {
	gravity := vec.V(0, -9.8)

	It("starts at rest", func() {
		p := verlet.NewPoint(vec.V(3, 4), false)
		Expect(p.Previous).To(Equal(p.Position))
		Expect(p.Displacement()).To(Equal(vec.V(0, 0)))
	})

	It("falls under gravity from rest", func() {
		p := verlet.NewPoint(vec.V(0, 100), false)
		p.Integrate(1, gravity)

		Expect(p.Position.X).To(BeNumerically("~", 0, 1e-12))
		Expect(p.Position.Y).To(BeNumerically("~", 90.2, 1e-12))
		Expect(p.Previous).To(Equal(vec.V(0, 100)))
	})

	It("carries its implicit velocity forward", func() {
		p := verlet.Point{Position: vec.V(10, 0), Previous: vec.V(8, 0)}
		p.Integrate(0, gravity)

		Expect(p.Position).To(Equal(vec.V(12, 0)))
		Expect(p.Previous).To(Equal(vec.V(10, 0)))
	})

	It("scales gravity by dt squared", func() {
		p := verlet.NewPoint(vec.V(0, 0), false)
		p.Integrate(0.5, gravity)
		Expect(p.Position.Y).To(BeNumerically("~", -9.8*0.25, 1e-12))
	})

	It("accepts a negative dt", func() {
		p := verlet.NewPoint(vec.V(0, 0), false)
		p.Integrate(-1, gravity)
		Expect(p.Position.Y).To(BeNumerically("~", -9.8, 1e-12))
	})

	It("ignores integration when locked", func() {
		p := verlet.Point{Position: vec.V(1, 1), Previous: vec.V(0, 0), Locked: true}
		p.Integrate(1, gravity)

		Expect(p.Position).To(Equal(vec.V(1, 1)))
		Expect(p.Previous).To(Equal(vec.V(0, 0)))
	})
})
