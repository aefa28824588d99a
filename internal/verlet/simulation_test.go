package verlet_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ropesim/internal/vec"
	"github.com/san-kum/ropesim/internal/verlet"
)

// chain builds n points spaced along x with the first one pinned.
func chain(n int, spacing float64) *verlet.Simulation {
	s := verlet.New(verlet.DefaultConfig())
	prev := s.AddPoint(vec.V(0, 0), true)
	for i := 1; i < n; i++ {
		h := s.AddPoint(vec.V(float64(i)*spacing, 0), false)
		_, err := s.AddStick(prev, h)
		Expect(err).NotTo(HaveOccurred())
		prev = h
	}
	return s
}

var _ = Describe("Simulation", func() {
	It("uses the documented defaults", func() {
		cfg := verlet.DefaultConfig()
		Expect(cfg.Iterations).To(Equal(5))
		Expect(cfg.Gravity).To(Equal(vec.V(0, -9.8)))

		s := verlet.New(verlet.Config{})
		Expect(s.Iterations()).To(Equal(verlet.DefaultIterations))
		Expect(s.Paused()).To(BeFalse())
	})

	Describe("AddStick", func() {
		var s *verlet.Simulation

		BeforeEach(func() {
			s = verlet.New(verlet.DefaultConfig())
			s.AddPoint(vec.V(0, 0), false)
			s.AddPoint(vec.V(3, 4), false)
		})

		It("takes the rest length from the initial distance", func() {
			i, err := s.AddStick(0, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Sticks()[i].RestLength()).To(BeNumerically("~", 5, 1e-12))
		})

		It("accepts an explicit rest length", func() {
			i, err := s.AddStickWithLength(0, 1, 2.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Sticks()[i].RestLength()).To(Equal(2.5))
		})

		It("rejects bad endpoints and lengths", func() {
			_, err := s.AddStick(0, 7)
			Expect(err).To(MatchError(verlet.ErrUnknownPoint))

			_, err = s.AddStick(-1, 0)
			Expect(err).To(MatchError(verlet.ErrUnknownPoint))

			_, err = s.AddStick(1, 1)
			Expect(err).To(MatchError(verlet.ErrSelfStick))

			_, err = s.AddStickWithLength(0, 1, -1)
			Expect(err).To(MatchError(verlet.ErrInvalidLength))

			_, err = s.AddStickWithLength(0, 1, math.NaN())
			Expect(err).To(MatchError(verlet.ErrInvalidLength))

			Expect(s.StickCount()).To(BeZero())
		})
	})

	It("keeps locked points exactly in place", func() {
		s := chain(6, 50)
		anchor, _ := s.Point(0)

		for range 500 {
			s.Step(1.0 / 60)
		}

		after, _ := s.Point(0)
		Expect(after.Position).To(Equal(anchor.Position))
		Expect(s.Steps()).To(Equal(500))
	})

	It("converges a stick to its rest length without gravity", func() {
		s := verlet.New(verlet.Config{Gravity: vec.V(0, 0), Iterations: 1})
		a := s.AddPoint(vec.V(-3, 2), false)
		b := s.AddPoint(vec.V(9, -7), false)
		i, err := s.AddStickWithLength(a, b, 4)
		Expect(err).NotTo(HaveOccurred())

		for range 10 {
			s.Step(0)
		}

		Expect(s.StickLength(i)).To(BeNumerically("~", 4, 4e-6))
	})

	It("relaxes sticks even when dt is zero", func() {
		s := verlet.New(verlet.DefaultConfig())
		a := s.AddPoint(vec.V(0, 0), false)
		b := s.AddPoint(vec.V(10, 0), false)
		_, err := s.AddStickWithLength(a, b, 4)
		Expect(err).NotTo(HaveOccurred())

		s.Step(0)

		pa, _ := s.Point(a)
		pb, _ := s.Point(b)
		Expect(pa.Position.Distance(pb.Position)).To(BeNumerically("~", 4, 1e-12))
	})

	It("integrates a free point under gravity", func() {
		s := verlet.New(verlet.DefaultConfig())
		h := s.AddPoint(vec.V(0, 100), false)

		s.Step(1)

		p, _ := s.Point(h)
		Expect(p.Position.Y).To(BeNumerically("~", 90.2, 1e-12))
		Expect(s.Time()).To(Equal(1.0))
	})

	It("holds a hanging chain near its rest lengths", func() {
		s := chain(6, 50)
		for range 600 {
			s.Step(1.0 / 60)
		}

		for i := range s.StickCount() {
			Expect(s.StickStrain(i)).To(BeNumerically("<", 0.02))
		}
		last, _ := s.Point(5)
		Expect(last.Position.Y).To(BeNumerically("<", 0))
	})

	Describe("pause", func() {
		It("returns to the original state after two toggles", func() {
			s := verlet.New(verlet.DefaultConfig())
			s.TogglePause()
			Expect(s.Paused()).To(BeTrue())
			s.TogglePause()
			Expect(s.Paused()).To(BeFalse())
		})

		It("freezes all physics while paused", func() {
			s := chain(4, 10)
			s.Step(1.0 / 60)
			before := s.Points()

			s.TogglePause()
			for range 20 {
				s.Step(1.0 / 60)
			}

			Expect(s.Points()).To(Equal(before))
			Expect(s.Steps()).To(Equal(1))

			s.TogglePause()
			s.Step(1.0 / 60)
			Expect(s.Points()).NotTo(Equal(before))
		})
	})

	Describe("AddPoint mid-run", func() {
		It("appends one point without disturbing existing state", func() {
			s := chain(4, 10)
			for range 30 {
				s.Step(1.0 / 60)
			}
			points, sticks := s.Points(), s.Sticks()

			h := s.AddPoint(vec.V(100, 100), false)

			Expect(h).To(Equal(verlet.Handle(4)))
			Expect(s.Len()).To(Equal(5))
			Expect(s.Points()[:4]).To(Equal(points))
			Expect(s.Sticks()).To(Equal(sticks))
		})

		It("includes the new point in the next step", func() {
			s := chain(3, 10)
			s.Step(1.0 / 60)
			h := s.AddPoint(vec.V(100, 100), false)

			s.Step(1)

			p, ok := s.Point(h)
			Expect(ok).To(BeTrue())
			Expect(p.Position.Y).To(BeNumerically("~", 90.2, 1e-12))
			Expect(p.Previous).To(Equal(vec.V(100, 100)))
		})

		It("adds locked points that never move", func() {
			s := verlet.New(verlet.DefaultConfig())
			h := s.AddPoint(vec.V(1, 2), true)
			s.Step(1)
			p, _ := s.Point(h)
			Expect(p.Position).To(Equal(vec.V(1, 2)))
		})
	})

	It("exposes stick endpoints for drawing", func() {
		s := chain(2, 10)
		a, b := s.Endpoints(0)
		Expect(a).To(Equal(vec.V(0, 0)))
		Expect(b).To(Equal(vec.V(10, 0)))
	})

	It("pins and releases points", func() {
		s := chain(2, 10)
		Expect(s.SetLocked(1, true)).To(Succeed())
		s.Step(1)
		p, _ := s.Point(1)
		Expect(p.Position).To(Equal(vec.V(10, 0)))

		Expect(s.SetLocked(9, true)).To(MatchError(verlet.ErrUnknownPoint))
	})

	It("restores a snapshot", func() {
		s := chain(4, 10)
		snap := s.Snapshot()
		before := s.Points()

		for range 10 {
			s.Step(1.0 / 60)
		}
		s.AddPoint(vec.V(0, 0), false)

		s.Restore(snap)
		Expect(s.Points()).To(Equal(before))
		Expect(s.Steps()).To(BeZero())
	})

	It("reports non-finite positions", func() {
		s := verlet.New(verlet.DefaultConfig())
		s.AddPoint(vec.V(0, 0), false)
		s.AddPoint(vec.V(math.Inf(1), 0), false)

		err := s.Validate()
		Expect(err).To(MatchError(verlet.ErrInvalidState))

		var stepErr *verlet.StepError
		Expect(errors.As(err, &stepErr)).To(BeTrue())
		Expect(stepErr.Point).To(Equal(verlet.Handle(1)))
	})
})
