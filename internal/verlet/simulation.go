package verlet

import (
	"fmt"
	"math"
	"slices"

	"github.com/san-kum/ropesim/internal/vec"
)

const (
	// DefaultIterations is the number of relaxation sweeps per step. Higher
	// values make sticks stiffer at a linear cost per frame.
	DefaultIterations = 5
	DefaultGravityY   = -9.8
)

// Config holds the tunables of a Simulation.
type Config struct {
	Gravity    vec.Vec2
	Iterations int
}

func DefaultConfig() Config {
	return Config{
		Gravity:    vec.V(0, DefaultGravityY),
		Iterations: DefaultIterations,
	}
}

// Simulation owns an ordered set of points and the sticks between them.
// It starts in the running state.
type Simulation struct {
	cfg    Config
	points []Point
	sticks []Stick
	paused bool
	steps  int
	time   float64
}

// New creates an empty simulation. A non-positive iteration count falls
// back to DefaultIterations.
func New(cfg Config) *Simulation {
	if cfg.Iterations <= 0 {
		cfg.Iterations = DefaultIterations
	}
	return &Simulation{
		cfg:    cfg,
		points: make([]Point, 0),
		sticks: make([]Stick, 0),
	}
}

func (s *Simulation) Config() Config    { return s.cfg }
func (s *Simulation) Gravity() vec.Vec2 { return s.cfg.Gravity }
func (s *Simulation) Iterations() int   { return s.cfg.Iterations }
func (s *Simulation) Len() int          { return len(s.points) }
func (s *Simulation) StickCount() int   { return len(s.sticks) }
func (s *Simulation) Paused() bool      { return s.paused }

// Steps is the number of non-paused steps taken so far.
func (s *Simulation) Steps() int { return s.steps }

// Time is the sum of dt over all non-paused steps.
func (s *Simulation) Time() float64 { return s.time }

// AddPoint appends a point at rest at pos and returns its handle. The new
// point takes part in every subsequent Step.
func (s *Simulation) AddPoint(pos vec.Vec2, locked bool) Handle {
	s.points = append(s.points, NewPoint(pos, locked))
	return Handle(len(s.points) - 1)
}

// AddStick connects a and b with a rest length equal to their current
// distance.
func (s *Simulation) AddStick(a, b Handle) (int, error) {
	if err := s.checkEndpoints(a, b); err != nil {
		return -1, err
	}
	return s.appendStick(a, b, s.points[a].Position.Distance(s.points[b].Position)), nil
}

// AddStickWithLength connects a and b with an explicit rest length.
func (s *Simulation) AddStickWithLength(a, b Handle, length float64) (int, error) {
	if err := s.checkEndpoints(a, b); err != nil {
		return -1, err
	}
	if length < 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return -1, fmt.Errorf("%w: %v", ErrInvalidLength, length)
	}
	return s.appendStick(a, b, length), nil
}

func (s *Simulation) appendStick(a, b Handle, length float64) int {
	s.sticks = append(s.sticks, Stick{A: a, B: b, restLength: length})
	return len(s.sticks) - 1
}

func (s *Simulation) checkEndpoints(a, b Handle) error {
	for _, h := range []Handle{a, b} {
		if !s.valid(h) {
			return fmt.Errorf("%w: %d (have %d points)", ErrUnknownPoint, h, len(s.points))
		}
	}
	if a == b {
		return fmt.Errorf("%w: %d", ErrSelfStick, a)
	}
	return nil
}

func (s *Simulation) valid(h Handle) bool {
	return h >= 0 && int(h) < len(s.points)
}

// Point returns a copy of the point at h.
func (s *Simulation) Point(h Handle) (Point, bool) {
	if !s.valid(h) {
		return Point{}, false
	}
	return s.points[h], true
}

// Points returns a copy of all points in insertion order.
func (s *Simulation) Points() []Point { return slices.Clone(s.points) }

// Sticks returns a copy of all sticks in insertion order.
func (s *Simulation) Sticks() []Stick { return slices.Clone(s.sticks) }

// Endpoints returns the current positions of both ends of stick i.
func (s *Simulation) Endpoints(i int) (vec.Vec2, vec.Vec2) {
	st := s.sticks[i]
	return s.points[st.A].Position, s.points[st.B].Position
}

// StickLength returns the current length of stick i.
func (s *Simulation) StickLength(i int) float64 {
	return s.sticks[i].Length(s.points)
}

// StickStrain returns the relative length error of stick i.
func (s *Simulation) StickStrain(i int) float64 {
	return s.sticks[i].Strain(s.points)
}

// SetLocked pins or releases the point at h.
func (s *Simulation) SetLocked(h Handle, locked bool) error {
	if !s.valid(h) {
		return fmt.Errorf("%w: %d", ErrUnknownPoint, h)
	}
	s.points[h].Locked = locked
	return nil
}

func (s *Simulation) TogglePause()          { s.paused = !s.paused }
func (s *Simulation) SetPaused(paused bool) { s.paused = paused }

// Step advances the simulation by dt: every point is integrated, then all
// sticks are relaxed in order, Iterations times. Relaxation runs even when
// dt is zero. Nothing happens while paused.
func (s *Simulation) Step(dt float64) {
	if s.paused {
		return
	}

	for i := range s.points {
		s.points[i].Integrate(dt, s.cfg.Gravity)
	}

	for range s.cfg.Iterations {
		s.Relax()
	}

	s.steps++
	s.time += dt
}

// Relax runs one sweep over all sticks.
func (s *Simulation) Relax() {
	for _, st := range s.sticks {
		st.Relax(s.points)
	}
}

// Validate returns a *StepError for the first point with a non-finite
// position.
func (s *Simulation) Validate() error {
	for i, p := range s.points {
		if !p.Position.IsValid() {
			return &StepError{Step: s.steps, Time: s.time, Point: Handle(i), Pos: p.Position, Wrapped: ErrInvalidState}
		}
	}
	return nil
}

// Snapshot captures the full mutable state so it can be restored later.
type Snapshot struct {
	points []Point
	sticks []Stick
	paused bool
	steps  int
	time   float64
}

func (s *Simulation) Snapshot() Snapshot {
	return Snapshot{
		points: slices.Clone(s.points),
		sticks: slices.Clone(s.sticks),
		paused: s.paused,
		steps:  s.steps,
		time:   s.time,
	}
}

// Restore rewinds the simulation to snap. Points and sticks added after the
// snapshot was taken are discarded.
func (s *Simulation) Restore(snap Snapshot) {
	s.points = slices.Clone(snap.points)
	s.sticks = slices.Clone(snap.sticks)
	s.paused = snap.paused
	s.steps = snap.steps
	s.time = snap.time
}
