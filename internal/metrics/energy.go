package metrics

import (
	"github.com/san-kum/ropesim/internal/verlet"
)

// TotalEnergy is the kinetic plus potential energy of all free points,
// taking each point as unit mass. Velocity is recovered from the last
// displacement, so dt must match the step size in use.
func TotalEnergy(s *verlet.Simulation, dt float64) float64 {
	g := s.Gravity()
	var e float64
	for _, p := range s.Points() {
		if p.Locked {
			continue
		}
		if dt != 0 {
			v := p.Displacement().Scale(1 / dt)
			e += 0.5 * v.LenSq()
		}
		e -= g.Dot(p.Position)
	}
	return e
}

// Energy averages the total energy over a run.
type Energy struct {
	dt          float64
	samples     int
	totalEnergy float64
}

func NewEnergy(dt float64) *Energy {
	return &Energy{dt: dt}
}

func (e *Energy) Name() string { return "energy" }

func (e *Energy) Observe(s *verlet.Simulation, t float64) {
	e.totalEnergy += TotalEnergy(s, e.dt)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// PointCount reports how many points the simulation held at the last
// observation.
type PointCount struct {
	n int
}

func NewPointCount() *PointCount { return &PointCount{} }

func (p *PointCount) Name() string                            { return "points" }
func (p *PointCount) Observe(s *verlet.Simulation, t float64) { p.n = s.Len() }
func (p *PointCount) Value() float64                          { return float64(p.n) }
func (p *PointCount) Reset()                                  { p.n = 0 }
