package metrics

import (
	"math"

	"github.com/san-kum/ropesim/internal/verlet"
)

// Strain returns the largest and the mean relative length error over all
// sticks of s.
func Strain(s *verlet.Simulation) (peak, mean float64) {
	n := s.StickCount()
	if n == 0 {
		return 0, 0
	}
	var sum float64
	for i := range n {
		e := s.StickStrain(i)
		peak = math.Max(peak, e)
		sum += e
	}
	return peak, sum / float64(n)
}

// MaxStrain records the worst stick strain seen during a run.
type MaxStrain struct {
	peak float64
}

func NewMaxStrain() *MaxStrain { return &MaxStrain{} }

func (m *MaxStrain) Name() string { return "max_strain" }

func (m *MaxStrain) Observe(s *verlet.Simulation, t float64) {
	peak, _ := Strain(s)
	m.peak = math.Max(m.peak, peak)
}

func (m *MaxStrain) Value() float64 { return m.peak }
func (m *MaxStrain) Reset()         { m.peak = 0 }

// MeanStrain averages the per-frame mean stick strain.
type MeanStrain struct {
	total   float64
	samples int
}

func NewMeanStrain() *MeanStrain { return &MeanStrain{} }

func (m *MeanStrain) Name() string { return "mean_strain" }

func (m *MeanStrain) Observe(s *verlet.Simulation, t float64) {
	_, mean := Strain(s)
	m.total += mean
	m.samples++
}

func (m *MeanStrain) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanStrain) Reset() {
	m.total = 0
	m.samples = 0
}
